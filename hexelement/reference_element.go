// Package hexelement evaluates the 8 node trilinear hexahedron with a 2x2x2
// Gauss-Legendre rule: shape function values, the Jacobian determinant and the
// physical gradients of the shape functions at each quadrature point.
package hexelement

const (
	NumNodes            = 8
	NumQuadraturePoints = 8
	NumDims             = 3
)

// QuadratureFactor is the Gauss-Legendre abscissa 1/sqrt(3)
const QuadratureFactor = 1.0 / 1.732050807568877293528

// Reference node coordinates by [dimension][node], x varies fastest. The
// quadrature points sit at QuadratureFactor times the same sign pattern, in
// the same order. Read only.
var parametricCoords = [NumDims][NumNodes]float64{
	{-1, 1, -1, 1, -1, 1, -1, 1},
	{-1, -1, 1, 1, -1, -1, 1, 1},
	{-1, -1, -1, -1, 1, 1, 1, 1},
}

// ParametricCoord returns component j of reference node a
func ParametricCoord(j, a int) float64 { return parametricCoords[j][a] }

// ParametricCoords returns a copy of the reference node table, [dimension][node]
func ParametricCoords() [NumDims][NumNodes]float64 { return parametricCoords }

// QuadratureWeight of point q for the tensor product 2 point rule
func QuadratureWeight(q int) float64 { return 1 }

// QuadraturePoint returns the parametric coordinates of quadrature point q
func QuadraturePoint(q int) (xi [NumDims]float64) {
	for j := 0; j < NumDims; j++ {
		xi[j] = QuadratureFactor * parametricCoords[j][q]
	}
	return
}
