package hexelement

import (
	"fmt"

	"github.com/notargets/hexkernel/dispatch"
	"github.com/notargets/hexkernel/views"
)

// ElementBatch holds the pre-allocated inputs and outputs for K elements. The
// output leading index is the flat quadrature slot e = k*NumQuadraturePoints + q.
type ElementBatch struct {
	K    int
	X    views.View3D // [K][NumNodes][NumDims] node coordinates
	N    views.View2D // [K*NumQuadraturePoints][NumNodes] shape function values
	DetJ views.View1D // [K*NumQuadraturePoints] Jacobian determinants
	DNDX views.View3D // [K*NumQuadraturePoints][NumNodes][NumDims] physical gradients
}

func NewElementBatch(K int) (eb *ElementBatch) {
	if K < 0 {
		panic(fmt.Sprintf("element count must be non-negative, have %d", K))
	}
	nSlots := K * NumQuadraturePoints
	eb = &ElementBatch{
		K:    K,
		X:    views.NewView3D(K, NumNodes, NumDims),
		N:    views.NewView2D(nSlots, NumNodes),
		DetJ: views.NewView1D(nSlots),
		DNDX: views.NewView3D(nSlots, NumNodes, NumDims),
	}
	return
}

// NewElementBatchFromCoords copies the node tables of each element into a new batch
func NewElementBatchFromCoords(coords [][NumNodes][NumDims]float64) (eb *ElementBatch) {
	eb = NewElementBatch(len(coords))
	for k := range coords {
		eb.SetElement(k, &coords[k])
	}
	return
}

func (eb *ElementBatch) SetElement(k int, X *[NumNodes][NumDims]float64) {
	for a := 0; a < NumNodes; a++ {
		for i := 0; i < NumDims; i++ {
			eb.X.Set(k, a, i, X[a][i])
		}
	}
}

func (eb *ElementBatch) Element(k int) (X [NumNodes][NumDims]float64) {
	for a := 0; a < NumNodes; a++ {
		for i := 0; i < NumDims; i++ {
			X[a][i] = eb.X.At(k, a, i)
		}
	}
	return
}

// Slots is the number of (element, quadrature point) pairs in the batch
func (eb *ElementBatch) Slots() int { return eb.K * NumQuadraturePoints }

// Evaluate fills N, DetJ and DNDX with two dispatches over every slot, one for
// the shape function values and one for the Jacobian and gradients
func (eb *ElementBatch) Evaluate(policy dispatch.Policy) {
	var (
		// The bodies capture views by value, never the batch
		nView, detView, dndxView, xView = eb.N, eb.DetJ, eb.DNDX, eb.X
	)
	dispatch.ParallelFor(policy, eb.Slots(), func(e int) {
		var N [NumNodes]float64
		ShapeFunctionValues(e%NumQuadraturePoints, &N)
		for a := 0; a < NumNodes; a++ {
			nView.Set(e, a, N[a])
		}
	})
	dispatch.ParallelFor(policy, eb.Slots(), func(e int) {
		var (
			k, q = e / NumQuadraturePoints, e % NumQuadraturePoints
			X    [NumNodes][NumDims]float64
			dNdX [NumNodes][NumDims]float64
		)
		for a := 0; a < NumNodes; a++ {
			for i := 0; i < NumDims; i++ {
				X[a][i] = xView.At(k, a, i)
			}
		}
		detView.Set(e, ShapeFunctionDerivatives(q, &X, &dNdX))
		for a := 0; a < NumNodes; a++ {
			for i := 0; i < NumDims; i++ {
				dndxView.Set(e, a, i, dNdX[a][i])
			}
		}
	})
}

// Volume integrates detJ over element k, exact for a trilinear hexahedron.
// Valid after Evaluate.
func (eb *ElementBatch) Volume(k int) (vol float64) {
	for q := 0; q < NumQuadraturePoints; q++ {
		vol += QuadratureWeight(q) * eb.DetJ.At(k*NumQuadraturePoints+q)
	}
	return
}

// DetJRange returns the smallest and largest determinant of element k
func (eb *ElementBatch) DetJRange(k int) (min, max float64) {
	min = eb.DetJ.At(k * NumQuadraturePoints)
	max = min
	for q := 1; q < NumQuadraturePoints; q++ {
		d := eb.DetJ.At(k*NumQuadraturePoints + q)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return
}
