package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

func TestPeak(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
		wantOK  bool
	}{
		{"empty", nil, 0, true},
		{"positive_max", []float64{0.1, 0.7, -0.3}, 0.7, true},
		{"negative_max", []float64{0.1, -0.9, 0.3}, 0.9, true},
		{"exact_value", []float64{0.123456789, -0.0001}, 0.123456789, true},
		{"nan", []float64{0.1, math.NaN()}, 0, false},
		{"pos_inf", []float64{math.Inf(1)}, 0, false},
		{"neg_inf", []float64{0.5, math.Inf(-1), 0.2}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Peak(tt.samples)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeak_Float32(t *testing.T) {
	got, ok := Peak([]float32{-0.80022585, 0.8001343})
	assert.True(t, ok)
	assert.Equal(t, float32(0.80022585), got)
}

func TestRMS(t *testing.T) {
	ops := simdops.For[float64]()
	assert.Zero(t, RMS(ops, []float64{}))
	assert.InDelta(t, 0.5, RMS(ops, []float64{0.5, -0.5, 0.5, -0.5}), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), RMS(ops, []float64{1, 0}), 1e-12)
}

func TestRemoveDC(t *testing.T) {
	ops := simdops.For[float64]()
	in := []float64{1.5, 0.5, 1.5, 0.5}
	out := removeDC(ops, in)

	assert.Equal(t, []float64{0.5, -0.5, 0.5, -0.5}, out)
	assert.Equal(t, []float64{1.5, 0.5, 1.5, 0.5}, in, "input must not be modified")
	assert.Empty(t, removeDC(ops, []float64{}))
}
