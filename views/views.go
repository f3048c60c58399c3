// Package views provides fixed-size, flat float64 buffers addressed by
// multi-dimensional indices. A view is allocated once, never resized, and is
// passed by value into dispatched kernel bodies: copying a view copies only
// its header, so every copy addresses the same storage.
package views

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// View1D addresses a flat buffer of length N
type View1D struct {
	data []float64
	n    int
}

func NewView1D(n int) View1D {
	checkDims(n)
	return View1D{data: make([]float64, n), n: n}
}

// WrapView1D builds a view over existing storage, which must hold exactly n values
func WrapView1D(data []float64, n int) View1D {
	checkDims(n)
	checkLen(len(data), n)
	return View1D{data: data[:n:n], n: n}
}

func (v View1D) Len() int { return v.n }
func (v View1D) At(i int) float64 { return v.data[i] }
func (v View1D) Set(i int, val float64) { v.data[i] = val }
func (v View1D) Data() []float64 { return v.data }

// View2D addresses a row-major NI x NJ buffer, the last index varies fastest
type View2D struct {
	data   []float64
	ni, nj int
}

func NewView2D(ni, nj int) View2D {
	checkDims(ni, nj)
	return View2D{data: make([]float64, ni*nj), ni: ni, nj: nj}
}

func WrapView2D(data []float64, ni, nj int) View2D {
	checkDims(ni, nj)
	checkLen(len(data), ni*nj)
	return View2D{data: data[: ni*nj : ni*nj], ni: ni, nj: nj}
}

func (v View2D) Index(i, j int) int { return j + v.nj*i }
func (v View2D) At(i, j int) float64 { return v.data[j+v.nj*i] }
func (v View2D) Set(i, j int, val float64) { v.data[j+v.nj*i] = val }
func (v View2D) Dims() (r, c int) { return v.ni, v.nj }
func (v View2D) Data() []float64 { return v.data }
func (v View2D) T() mat.Matrix { return mat.Transpose{Matrix: v} }
func (v View2D) Len() int { return len(v.data) }
func (v View2D) Dense() (D *mat.Dense) { return mat.NewDense(v.ni, v.nj, v.data) }
func (v View2D) String() string { return fmt.Sprintf("View2D[%d,%d]", v.ni, v.nj) }
func (v View2D) RowView(i int) (row []float64) { return v.data[v.nj*i : v.nj*(i+1) : v.nj*(i+1)] }

// View3D addresses a row-major NI x NJ x NK buffer, the last index varies fastest
type View3D struct {
	data       []float64
	ni, nj, nk int
}

func NewView3D(ni, nj, nk int) View3D {
	checkDims(ni, nj, nk)
	return View3D{data: make([]float64, ni*nj*nk), ni: ni, nj: nj, nk: nk}
}

func WrapView3D(data []float64, ni, nj, nk int) View3D {
	checkDims(ni, nj, nk)
	size := ni * nj * nk
	checkLen(len(data), size)
	return View3D{data: data[:size:size], ni: ni, nj: nj, nk: nk}
}

func (v View3D) Index(i, j, k int) int { return k + v.nk*(j+v.nj*i) }
func (v View3D) At(i, j, k int) float64 { return v.data[k+v.nk*(j+v.nj*i)] }
func (v View3D) Set(i, j, k int, val float64) { v.data[k+v.nk*(j+v.nj*i)] = val }
func (v View3D) Dims() (ni, nj, nk int) { return v.ni, v.nj, v.nk }
func (v View3D) Data() []float64 { return v.data }
func (v View3D) Len() int { return len(v.data) }

// Slab returns the NJ x NK view at leading index i, sharing storage
func (v View3D) Slab(i int) View2D {
	stride := v.nj * v.nk
	return View2D{
		data: v.data[stride*i : stride*(i+1) : stride*(i+1)],
		ni:   v.nj,
		nj:   v.nk,
	}
}

func checkDims(dims ...int) {
	for _, d := range dims {
		if d < 0 {
			panic(fmt.Sprintf("view dimensions must be non-negative, have %v", dims))
		}
	}
}

func checkLen(have, want int) {
	if have != want {
		panic(fmt.Sprintf("view storage has %d values, dimensions require %d", have, want))
	}
}
