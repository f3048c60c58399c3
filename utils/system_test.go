package utils

import (
	"math"
	"testing"

	"github.com/notargets/hexkernel/views"
	"github.com/stretchr/testify/assert"
)

func TestNonFiniteDetection(t *testing.T) {
	v := views.NewView2D(2, 2)
	assert.True(t, IsFinite(v))
	v.Set(1, 1, math.Inf(-1))
	assert.False(t, IsFinite(v))
	v.Set(1, 1, 0)
	v.Set(0, 1, math.NaN())
	assert.False(t, IsFinite(v))
	assert.False(t, IsFinite(v.RowView(0)))
	assert.True(t, IsFinite(v.RowView(1)))

	v3 := views.NewView3D(1, 2, 3)
	assert.True(t, IsFinite(v3))
	assert.True(t, IsFinite([]float64{1, 2}))
	assert.False(t, IsFinite(float32(math.Inf(1))))
	assert.NotEmpty(t, GetMemUsage())
}
