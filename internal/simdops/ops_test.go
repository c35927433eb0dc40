package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_ReturnsSharedInstances(t *testing.T) {
	assert.Same(t, &ops32, For[float32]())
	assert.Same(t, &ops64, For[float64]())
}

func TestOps_Float64(t *testing.T) {
	ops := For[float64]()
	a := []float64{1, -2, 3, -4, 5}

	assert.InDelta(t, 3.0, ops.Sum(a), 1e-12)
	assert.InDelta(t, 55.0, ops.DotProductUnsafe(a, a), 1e-12)

	dst := make([]float64, len(a))
	ops.Scale(dst, a, 0.5)
	assert.Equal(t, []float64{0.5, -1, 1.5, -2, 2.5}, dst)
}

func TestOps_Float32(t *testing.T) {
	ops := For[float32]()
	a := []float32{0.25, 0.25, -0.5, 1}

	assert.InDelta(t, 1.0, float64(ops.Sum(a)), 1e-6)
	assert.InDelta(t, 1.375, float64(ops.DotProductUnsafe(a, a)), 1e-6)

	dst := make([]float32, len(a))
	ops.Scale(dst, a, 2)
	assert.Equal(t, []float32{0.5, 0.5, -1, 2}, dst)
}

func TestInfo_NotEmpty(t *testing.T) {
	require.NotEmpty(t, Info())
}

// BenchmarkIndirectF64DotProduct measures the indirect call through the Ops struct.
func BenchmarkIndirectF64DotProduct(b *testing.B) {
	ops := For[float64]()
	a := make([]float64, 2048)
	for i := range a {
		a[i] = float64(i) * 0.001
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.DotProductUnsafe(a, a)
	}
}
