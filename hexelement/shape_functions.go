package hexelement

// The kernels in this file take only fixed size arrays and write only their
// outputs, so they can run inside any dispatch policy. Preconditions (q in
// [0, NumQuadraturePoints), a right-handed non-degenerate element) are not
// checked; a degenerate element produces huge or non-finite values.

// ShapeFunctionValues writes N_a at quadrature point q for every node a:
//
//	N_a = 1/8 (1 + xi_0 X_0a)(1 + xi_1 X_1a)(1 + xi_2 X_2a)
func ShapeFunctionValues(q int, N *[NumNodes]float64) {
	xi := QuadraturePoint(q)
	for a := 0; a < NumNodes; a++ {
		N[a] = 0.125 *
			(1 + xi[0]*parametricCoords[0][a]) *
			(1 + xi[1]*parametricCoords[1][a]) *
			(1 + xi[2]*parametricCoords[2][a])
	}
}

// ParametricDerivatives writes dN_a/dxi_j at quadrature point q
func ParametricDerivatives(q int, dNdXi *[NumNodes][NumDims]float64) {
	xi := QuadraturePoint(q)
	for a := 0; a < NumNodes; a++ {
		var (
			X0, X1, X2 = parametricCoords[0][a], parametricCoords[1][a], parametricCoords[2][a]
			f0         = 1 + xi[0]*X0
			f1         = 1 + xi[1]*X1
			f2         = 1 + xi[2]*X2
		)
		dNdXi[a][0] = 0.125 * X0 * f1 * f2
		dNdXi[a][1] = 0.125 * f0 * X1 * f2
		dNdXi[a][2] = 0.125 * f0 * f1 * X2
	}
}

// ShapeFunctionDerivatives writes the physical gradient dN_a/dx_i at quadrature
// point q of the element with node coordinates X[a][i] and returns the
// Jacobian determinant at that point.
func ShapeFunctionDerivatives(q int, X *[NumNodes][NumDims]float64,
	dNdX *[NumNodes][NumDims]float64) (detJ float64) {
	var (
		dNdXi [NumNodes][NumDims]float64
		J     [NumDims][NumDims]float64
	)
	ParametricDerivatives(q, &dNdXi)

	// J[i][j] = dx_i/dxi_j
	for a := 0; a < NumNodes; a++ {
		for i := 0; i < NumDims; i++ {
			for j := 0; j < NumDims; j++ {
				J[i][j] += X[a][i] * dNdXi[a][j]
			}
		}
	}

	var Jinv [NumDims][NumDims]float64
	detJ = invert3x3(&J, &Jinv)

	for a := 0; a < NumNodes; a++ {
		for i := 0; i < NumDims; i++ {
			dNdX[a][i] = dNdXi[a][0]*Jinv[0][i] + dNdXi[a][1]*Jinv[1][i] + dNdXi[a][2]*Jinv[2][i]
		}
	}
	return
}

// invert3x3 writes the inverse of J by cofactors and returns det(J). c[i][j]
// is the cofactor of J[i][j], det is expanded down the first column.
func invert3x3(J, Jinv *[NumDims][NumDims]float64) (det float64) {
	var c [NumDims][NumDims]float64
	c[0][0] = J[1][1]*J[2][2] - J[1][2]*J[2][1]
	c[1][0] = J[0][2]*J[2][1] - J[0][1]*J[2][2]
	c[2][0] = J[0][1]*J[1][2] - J[0][2]*J[1][1]
	c[0][1] = J[1][2]*J[2][0] - J[1][0]*J[2][2]
	c[1][1] = J[0][0]*J[2][2] - J[0][2]*J[2][0]
	c[2][1] = J[0][2]*J[1][0] - J[0][0]*J[1][2]
	c[0][2] = J[1][0]*J[2][1] - J[1][1]*J[2][0]
	c[1][2] = J[0][1]*J[2][0] - J[0][0]*J[2][1]
	c[2][2] = J[0][0]*J[1][1] - J[0][1]*J[1][0]
	det = J[0][0]*c[0][0] + J[1][0]*c[1][0] + J[2][0]*c[2][0]
	invDet := 1 / det
	for i := 0; i < NumDims; i++ {
		for j := 0; j < NumDims; j++ {
			Jinv[i][j] = c[j][i] * invDet
		}
	}
	return
}

// PhysicalCoordinates returns the physical position of quadrature point q
func PhysicalCoordinates(q int, X *[NumNodes][NumDims]float64) (x [NumDims]float64) {
	var N [NumNodes]float64
	ShapeFunctionValues(q, &N)
	for a := 0; a < NumNodes; a++ {
		for i := 0; i < NumDims; i++ {
			x[i] += N[a] * X[a][i]
		}
	}
	return
}
