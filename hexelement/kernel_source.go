package hexelement

import (
	"fmt"
	"strings"
)

const DeviceKernelName = "hexShapeFunctionKernel"

// GenerateKernelSource returns the OKL source of the batch kernel. The
// reference node table is compiled into the kernel as static data and the
// slot loop is tiled into @outer blocks of blockSize @inner lanes. The body is
// the same arithmetic as ShapeFunctionValues and ShapeFunctionDerivatives.
func GenerateKernelSource(blockSize int) string {
	var sb strings.Builder
	if blockSize <= 0 {
		blockSize = 32
	}
	sb.WriteString(fmt.Sprintf("#define NN %d\n", NumNodes))
	sb.WriteString(fmt.Sprintf("#define NQ %d\n", NumQuadraturePoints))
	sb.WriteString(fmt.Sprintf("#define ND %d\n", NumDims))
	sb.WriteString(fmt.Sprintf("#define BLOCK_SIZE %d\n", blockSize))
	sb.WriteString(fmt.Sprintf("#define QFACTOR %.17e\n\n", QuadratureFactor))
	sb.WriteString(formatStaticTable("PCOORDS", parametricCoords))
	sb.WriteString(kernelBody)
	return sb.String()
}

// formatStaticTable formats a table as a static C array
func formatStaticTable(name string, table [NumDims][NumNodes]float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("const double %s[%d][%d] = {\n", name, NumDims, NumNodes))
	for i := 0; i < NumDims; i++ {
		sb.WriteString("    {")
		for j := 0; j < NumNodes; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%.15e", table[i][j]))
		}
		sb.WriteString("}")
		if i < NumDims-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")
	return sb.String()
}

const kernelBody = `@kernel void hexShapeFunctionKernel(const int nSlots,
                                    const double *X,
                                    double *N,
                                    double *detJ,
                                    double *dNdX) {
  for (int e = 0; e < nSlots; ++e; @tile(BLOCK_SIZE, @outer, @inner)) {
    const int k = e / NQ;
    const int q = e % NQ;
    double xi[ND];
    for (int j = 0; j < ND; ++j) {
      xi[j] = QFACTOR * PCOORDS[j][q];
    }

    double dNdXi[NN][ND];
    for (int a = 0; a < NN; ++a) {
      const double f0 = 1 + xi[0] * PCOORDS[0][a];
      const double f1 = 1 + xi[1] * PCOORDS[1][a];
      const double f2 = 1 + xi[2] * PCOORDS[2][a];
      N[e * NN + a] = 0.125 * f0 * f1 * f2;
      dNdXi[a][0] = 0.125 * PCOORDS[0][a] * f1 * f2;
      dNdXi[a][1] = 0.125 * f0 * PCOORDS[1][a] * f2;
      dNdXi[a][2] = 0.125 * f0 * f1 * PCOORDS[2][a];
    }

    double J[ND][ND];
    for (int i = 0; i < ND; ++i) {
      for (int j = 0; j < ND; ++j) {
        J[i][j] = 0;
      }
    }
    for (int a = 0; a < NN; ++a) {
      for (int i = 0; i < ND; ++i) {
        for (int j = 0; j < ND; ++j) {
          J[i][j] += X[(k * NN + a) * ND + i] * dNdXi[a][j];
        }
      }
    }

    double c[ND][ND];
    c[0][0] = J[1][1]*J[2][2] - J[1][2]*J[2][1];
    c[1][0] = J[0][2]*J[2][1] - J[0][1]*J[2][2];
    c[2][0] = J[0][1]*J[1][2] - J[0][2]*J[1][1];
    c[0][1] = J[1][2]*J[2][0] - J[1][0]*J[2][2];
    c[1][1] = J[0][0]*J[2][2] - J[0][2]*J[2][0];
    c[2][1] = J[0][2]*J[1][0] - J[0][0]*J[1][2];
    c[0][2] = J[1][0]*J[2][1] - J[1][1]*J[2][0];
    c[1][2] = J[0][1]*J[2][0] - J[0][0]*J[2][1];
    c[2][2] = J[0][0]*J[1][1] - J[0][1]*J[1][0];
    const double det = J[0][0]*c[0][0] + J[1][0]*c[1][0] + J[2][0]*c[2][0];
    const double invDet = 1 / det;
    detJ[e] = det;

    for (int a = 0; a < NN; ++a) {
      for (int i = 0; i < ND; ++i) {
        dNdX[(e * NN + a) * ND + i] = (dNdXi[a][0] * c[i][0] +
                                       dNdXi[a][1] * c[i][1] +
                                       dNdXi[a][2] * c[i][2]) * invDet;
      }
    }
  }
}
`
