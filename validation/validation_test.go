package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/hexelement"
	"github.com/notargets/hexkernel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var xCoords = [numNodes][3]float64{
	{-1.1, -1.3, -1.1},
	{1.3, -1.1, -1.2},
	{-1.2, 1.1, -1.1},
	{1.1, 1.2, -1.3},
	{-1.3, -1.2, 1.1},
	{1.1, -1.3, 1.2},
	{-1.2, 1.2, 1.3},
	{1.2, 1.1, 1.1},
}

func TestKernelAgainstReference(t *testing.T) {
	for q := 0; q < hexelement.NumQuadraturePoints; q++ {
		var (
			N          [numNodes]float64
			dNdX       [numNodes][3]float64
			refN       = ShapeValues(q)
			refDet, rg = Derivatives(q, &xCoords)
		)
		hexelement.ShapeFunctionValues(q, &N)
		detJ := hexelement.ShapeFunctionDerivatives(q, &xCoords, &dNdX)
		var sum float64
		for a := 0; a < numNodes; a++ {
			assert.InDelta(t, refN[a], N[a], 1.e-15)
			sum += N[a]
		}
		assert.InDelta(t, 1., sum, utils.RELTOL)
		assert.True(t, RelativeError(detJ, refDet, math.SmallestNonzeroFloat64) < utils.RELTOL)
		for a := 0; a < numNodes; a++ {
			for i := 0; i < 3; i++ {
				assert.InDelta(t, rg[a][i], dNdX[a][i], 1.e-12, "q=%d a=%d i=%d", q, a, i)
			}
		}
	}
}

func TestReferenceAgainstGonum(t *testing.T) {
	for q := 0; q < hexelement.NumQuadraturePoints; q++ {
		det, dNdX := Derivatives(q, &xCoords)
		gDet, gdNdX, err := GonumDerivatives(q, &xCoords)
		require.NoError(t, err)
		assert.InEpsilon(t, gDet, det, 1.e-12)
		for a := 0; a < numNodes; a++ {
			assert.InDeltaSlice(t, gdNdX[a][:], dNdX[a][:], 1.e-12)
		}
	}
}

func TestInvert(t *testing.T) {
	J := [3][3]float64{{2, 0, 0}, {0, 4, 0}, {0, 0, 0.5}}
	invDet := Invert(&J)
	assert.Equal(t, 0.25, invDet)
	assert.Equal(t, [3][3]float64{{0.5, 0, 0}, {0, 0.25, 0}, {0, 0, 2}}, J)

	A := [3][3]float64{{1, 2, 3}, {0, 1, 4}, {5, 6, 0}}
	Ainv := A
	invDet = Invert(&Ainv)
	assert.InDelta(t, 1., invDet, 1.e-15) // det(A) == 1
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += A[i][k] * Ainv[k][j]
			}
			if i == j {
				assert.InDelta(t, 1., sum, 1.e-14)
			} else {
				assert.InDelta(t, 0., sum, 1.e-14)
			}
		}
	}
}

func TestVerifyBatch(t *testing.T) {
	batch := hexelement.NewElementBatchFromCoords([][numNodes][3]float64{xCoords, xCoords})
	for _, policy := range []dispatch.Policy{
		dispatch.Sequential{},
		dispatch.HostConcurrent{},
		dispatch.AcceleratorConcurrent{BlockSize: 4},
	} {
		batch.Evaluate(policy)
		assert.NoError(t, VerifyBatch(batch, utils.RELTOL), policy.Name())
	}

	// Corrupt three slots and expect exactly three reported mismatches
	batch.N.Set(3, 2, batch.N.At(3, 2)+1.e-3)
	batch.DetJ.Set(9, math.NaN())
	batch.DNDX.Set(15, 7, 1, batch.DNDX.At(15, 7, 1)*1.1)
	err := VerifyBatch(batch, utils.RELTOL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
	errs := multierr.Errors(err)
	require.Len(t, errs, 3)
	var m *Mismatch
	require.True(t, errors.As(errs[1], &m))
	assert.Equal(t, 1, m.Element)
	assert.Equal(t, 1, m.Point)
	assert.Equal(t, "detJ", m.Quantity)
	assert.Contains(t, errs[0].Error(), "element 0, point 3: N[node 2, dim -1]")
}

func TestCheckElement(t *testing.T) {
	assert.NoError(t, CheckElement(&xCoords))

	// Mirroring x flips the orientation
	mirrored := xCoords
	for a := range mirrored {
		mirrored[a][0] = -mirrored[a][0]
	}
	assert.ErrorIs(t, CheckElement(&mirrored), ErrInvertedElement)

	var collapsed [numNodes][3]float64
	assert.ErrorIs(t, CheckElement(&collapsed), ErrDegenerateElement)

	batch := hexelement.NewElementBatchFromCoords([][numNodes][3]float64{xCoords, mirrored, collapsed})
	err := CheckBatchElements(batch)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "element 1")
	assert.Contains(t, errs[1].Error(), "element 2")

	// The kernel itself runs through the degenerate element without a guard
	batch.Evaluate(dispatch.Sequential{})
	assert.False(t, utils.IsFinite(batch.DNDX.Slab(2*hexelement.NumQuadraturePoints)))
}
