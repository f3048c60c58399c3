package utils

import (
	"fmt"
	"math"
	"runtime"

	"github.com/notargets/hexkernel/views"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsFinite reports whether every value held by A is neither NaN nor Inf
func IsFinite(A any) bool {
	return !anyMatch(A, func(f float64) bool {
		return math.IsNaN(f) || math.IsInf(f, 0)
	})
}

func anyMatch(A any, test func(float64) bool) bool {
	switch v := A.(type) {
	case float64:
		return test(v)
	case float32:
		return test(float64(v))
	case []float64:
		for _, f := range v {
			if test(f) {
				return true
			}
		}
	case []float32:
		for _, f := range v {
			if test(float64(f)) {
				return true
			}
		}
	case views.View1D:
		return anyMatch(v.Data(), test)
	case views.View2D:
		return anyMatch(v.Data(), test)
	case views.View3D:
		return anyMatch(v.Data(), test)
	}
	return false
}
