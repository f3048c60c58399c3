// Package validation holds an independent reference evaluation of the
// hexahedron kernel and the checks built on it. It is not on the production
// path: the kernel itself never validates its inputs.
package validation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const numNodes = 8

// Reference node table, independent of hexelement's
var pCoords = [3][numNodes]float64{
	{-1, 1, -1, 1, -1, 1, -1, 1},
	{-1, -1, 1, 1, -1, -1, 1, 1},
	{-1, -1, -1, -1, 1, 1, 1, 1},
}

const quadratureFactor = 1.0 / 1.732050807568877293528

func quadraturePoint(q int) [3]float64 {
	return [3]float64{
		quadratureFactor * pCoords[0][q],
		quadratureFactor * pCoords[1][q],
		quadratureFactor * pCoords[2][q],
	}
}

// ShapeValues evaluates the trilinear product formula at quadrature point q
func ShapeValues(q int) (N [numNodes]float64) {
	xi := quadraturePoint(q)
	for a := 0; a < numNodes; a++ {
		N[a] = 0.125 * (1 + xi[0]*pCoords[0][a]) *
			(1 + xi[1]*pCoords[1][a]) *
			(1 + xi[2]*pCoords[2][a])
	}
	return
}

// ParametricGradient is dN_a/dxi at quadrature point q, differentiated by hand
func ParametricGradient(q, a int) [3]float64 {
	xi := quadraturePoint(q)
	return [3]float64{
		0.125 * pCoords[0][a] *
			(1 + xi[1]*pCoords[1][a]) *
			(1 + xi[2]*pCoords[2][a]),
		0.125 * (1 + xi[0]*pCoords[0][a]) *
			pCoords[1][a] *
			(1 + xi[2]*pCoords[2][a]),
		0.125 * (1 + xi[0]*pCoords[0][a]) *
			(1 + xi[1]*pCoords[1][a]) *
			pCoords[2][a],
	}
}

// Jacobian returns J[i][j] = dx_i/dxi_j at quadrature point q
func Jacobian(q int, X *[numNodes][3]float64) (J [3][3]float64) {
	for a := 0; a < numNodes; a++ {
		dNdXi := ParametricGradient(q, a)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				J[i][j] = J[i][j] + X[a][i]*dNdXi[j]
			}
		}
	}
	return
}

// Invert replaces J with its inverse by the adjugate and returns 1/det(J)
func Invert(J *[3][3]float64) (invDet float64) {
	var scratch [3][3]float64
	scratch[0][0] = J[1][1]*J[2][2] - J[1][2]*J[2][1]
	scratch[1][0] = J[0][2]*J[2][1] - J[0][1]*J[2][2]
	scratch[2][0] = J[0][1]*J[1][2] - J[0][2]*J[1][1]
	scratch[0][1] = J[1][2]*J[2][0] - J[1][0]*J[2][2]
	scratch[1][1] = J[0][0]*J[2][2] - J[0][2]*J[2][0]
	scratch[2][1] = J[0][2]*J[1][0] - J[0][0]*J[1][2]
	scratch[0][2] = J[1][0]*J[2][1] - J[1][1]*J[2][0]
	scratch[1][2] = J[0][1]*J[2][0] - J[0][0]*J[2][1]
	scratch[2][2] = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	invDet = 1 / (J[0][0]*scratch[0][0] + J[1][0]*scratch[1][0] + J[2][0]*scratch[2][0])
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			J[i][j] = scratch[j][i] * invDet
		}
	}
	return
}

// Derivatives is the reference determinant and physical gradient table at q
func Derivatives(q int, X *[numNodes][3]float64) (detJ float64, dNdX [numNodes][3]float64) {
	J := Jacobian(q, X)
	detJ = 1 / Invert(&J)
	for a := 0; a < numNodes; a++ {
		dNdXi := ParametricGradient(q, a)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dNdX[a][i] += dNdXi[j] * J[j][i]
			}
		}
	}
	return
}

// GonumDerivatives repeats Derivatives with an LU based determinant and
// inverse from gonum, a check independent of any cofactor arithmetic
func GonumDerivatives(q int, X *[numNodes][3]float64) (detJ float64, dNdX [numNodes][3]float64, err error) {
	var (
		J     = Jacobian(q, X)
		Jm    = mat.NewDense(3, 3, []float64{J[0][0], J[0][1], J[0][2], J[1][0], J[1][1], J[1][2], J[2][0], J[2][1], J[2][2]})
		Jinv  mat.Dense
		G     = mat.NewDense(numNodes, 3, nil)
		dNdXm mat.Dense
	)
	detJ = mat.Det(Jm)
	if err = Jinv.Inverse(Jm); err != nil {
		err = fmt.Errorf("quadrature point %d: %w", q, err)
		return
	}
	for a := 0; a < numNodes; a++ {
		g := ParametricGradient(q, a)
		G.SetRow(a, g[:])
	}
	dNdXm.Mul(G, &Jinv)
	for a := 0; a < numNodes; a++ {
		for i := 0; i < 3; i++ {
			dNdX[a][i] = dNdXm.At(a, i)
		}
	}
	return
}
