package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/hexkernel/hexelement"
	"go.uber.org/multierr"
)

var (
	ErrMismatch          = errors.New("kernel output disagrees with reference")
	ErrInvertedElement   = errors.New("inverted element")
	ErrDegenerateElement = errors.New("degenerate element")
)

// Mismatch records one output slot that failed the tolerance check
type Mismatch struct {
	Element, Point int
	Quantity       string // "N", "detJ" or "dNdX"
	Node, Dim      int    // -1 when not applicable
	Got, Want      float64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("element %d, point %d: %s[node %d, dim %d] = %.16g, reference %.16g",
		m.Element, m.Point, m.Quantity, m.Node, m.Dim, m.Got, m.Want)
}

func (m *Mismatch) Unwrap() error { return ErrMismatch }

// RelativeError is |got-want| relative to max(|want|, scale)
func RelativeError(got, want, scale float64) float64 {
	return math.Abs(got-want) / math.Max(math.Abs(want), scale)
}

// VerifyBatch compares every slot of an evaluated batch with the reference
// evaluation and returns all mismatches combined, or nil
func VerifyBatch(eb *hexelement.ElementBatch, tol float64) (err error) {
	for k := 0; k < eb.K; k++ {
		X := eb.Element(k)
		for q := 0; q < hexelement.NumQuadraturePoints; q++ {
			err = multierr.Append(err, verifyPoint(eb, k, q, &X, tol))
		}
	}
	return
}

func verifyPoint(eb *hexelement.ElementBatch, k, q int, X *[numNodes][3]float64, tol float64) (err error) {
	var (
		e          = k*hexelement.NumQuadraturePoints + q
		N          = ShapeValues(q)
		detJ, dNdX = Derivatives(q, X)
		gradScale  float64
	)
	for a := 0; a < numNodes; a++ {
		if got := eb.N.At(e, a); !(RelativeError(got, N[a], 1) <= tol) {
			err = multierr.Append(err, &Mismatch{k, q, "N", a, -1, got, N[a]})
		}
		for i := 0; i < 3; i++ {
			gradScale = math.Max(gradScale, math.Abs(dNdX[a][i]))
		}
	}
	if got := eb.DetJ.At(e); !(RelativeError(got, detJ, math.SmallestNonzeroFloat64) <= tol) {
		err = multierr.Append(err, &Mismatch{k, q, "detJ", -1, -1, got, detJ})
	}
	for a := 0; a < numNodes; a++ {
		for i := 0; i < 3; i++ {
			if got := eb.DNDX.At(e, a, i); !(RelativeError(got, dNdX[a][i], gradScale) <= tol) {
				err = multierr.Append(err, &Mismatch{k, q, "dNdX", a, i, got, dNdX[a][i]})
			}
		}
	}
	return
}

// CheckElement is the upstream mesh quality check the kernel relies on: the
// Jacobian determinant must be finite and positive at every quadrature point
func CheckElement(X *[numNodes][3]float64) error {
	for q := 0; q < hexelement.NumQuadraturePoints; q++ {
		J := Jacobian(q, X)
		det := J[0][0]*(J[1][1]*J[2][2]-J[1][2]*J[2][1]) -
			J[0][1]*(J[1][0]*J[2][2]-J[1][2]*J[2][0]) +
			J[0][2]*(J[1][0]*J[2][1]-J[1][1]*J[2][0])
		switch {
		case math.IsNaN(det) || math.IsInf(det, 0) || det == 0:
			return fmt.Errorf("%w: detJ = %g at quadrature point %d", ErrDegenerateElement, det, q)
		case det < 0:
			return fmt.Errorf("%w: detJ = %g at quadrature point %d", ErrInvertedElement, det, q)
		}
	}
	return nil
}

// CheckBatchElements runs CheckElement on every element of the batch
func CheckBatchElements(eb *hexelement.ElementBatch) (err error) {
	for k := 0; k < eb.K; k++ {
		X := eb.Element(k)
		if e := CheckElement(&X); e != nil {
			err = multierr.Append(err, fmt.Errorf("element %d: %w", k, e))
		}
	}
	return
}
