package hexelement

import (
	"testing"

	"github.com/notargets/hexkernel/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementBatchLayout(t *testing.T) {
	batch := NewElementBatchFromCoords([][NumNodes][NumDims]float64{referenceCube(), irregularHex})
	assert.Equal(t, 2, batch.K)
	assert.Equal(t, 16, batch.Slots())
	assert.Equal(t, irregularHex, batch.Element(1))
	r, c := batch.N.Dims()
	assert.Equal(t, 16, r)
	assert.Equal(t, NumNodes, c)
	assert.Equal(t, 16, batch.DetJ.Len())
	assert.Equal(t, 16*NumNodes*NumDims, batch.DNDX.Len())
	assert.Panics(t, func() { NewElementBatch(-1) })
	empty := NewElementBatch(0)
	assert.NotPanics(t, func() { empty.Evaluate(dispatch.HostConcurrent{}) })
}

func TestElementBatchEvaluate(t *testing.T) {
	batch := NewElementBatchFromCoords([][NumNodes][NumDims]float64{referenceCube(), irregularHex})
	batch.Evaluate(dispatch.Sequential{})
	for k := 0; k < batch.K; k++ {
		X := batch.Element(k)
		for q := 0; q < NumQuadraturePoints; q++ {
			var (
				e    = k*NumQuadraturePoints + q
				N    [NumNodes]float64
				dNdX [NumNodes][NumDims]float64
			)
			ShapeFunctionValues(q, &N)
			detJ := ShapeFunctionDerivatives(q, &X, &dNdX)
			assert.Equal(t, N[:], batch.N.RowView(e))
			assert.Equal(t, detJ, batch.DetJ.At(e))
			for a := 0; a < NumNodes; a++ {
				for i := 0; i < NumDims; i++ {
					assert.Equal(t, dNdX[a][i], batch.DNDX.At(e, a, i))
				}
			}
		}
	}
	assert.InDelta(t, 8., batch.Volume(0), 1.e-13)
	dMin, dMax := batch.DetJRange(0)
	assert.InDelta(t, 1., dMin, 1.e-14)
	assert.InDelta(t, 1., dMax, 1.e-14)
	dMin, dMax = batch.DetJRange(1)
	assert.True(t, dMin > 0 && dMin <= dMax)
}

func TestBackendDeterminism(t *testing.T) {
	var (
		coords   = randomHexes(517, 7)
		expected = NewElementBatchFromCoords(coords)
	)
	expected.Evaluate(dispatch.Sequential{})
	for _, policy := range []dispatch.Policy{
		dispatch.HostConcurrent{},
		dispatch.HostConcurrent{Workers: 5},
		dispatch.AcceleratorConcurrent{},
		dispatch.AcceleratorConcurrent{BlockSize: 64},
	} {
		t.Run(policy.Name(), func(t *testing.T) {
			batch := NewElementBatchFromCoords(coords)
			batch.Evaluate(policy)
			require.Equal(t, expected.N.Data(), batch.N.Data())
			require.Equal(t, expected.DetJ.Data(), batch.DetJ.Data())
			require.Equal(t, expected.DNDX.Data(), batch.DNDX.Data())
		})
	}
	for k := 0; k < expected.K; k++ {
		dMin, _ := expected.DetJRange(k)
		assert.True(t, dMin > 0, "element %d inverted", k)
	}
}

func BenchmarkElementBatchEvaluate(b *testing.B) {
	batch := NewElementBatchFromCoords(randomHexes(4096, 1))
	for _, policy := range []dispatch.Policy{
		dispatch.Sequential{},
		dispatch.HostConcurrent{},
		dispatch.AcceleratorConcurrent{},
	} {
		b.Run(policy.Name(), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				batch.Evaluate(policy)
			}
		})
	}
}
