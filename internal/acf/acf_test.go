package acf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-bitstream-pitch/internal/testutil"
)

// direct computes the autocorrelation with the O(n²) definition.
func direct(x []float64) []float64 {
	r := make([]float64, len(x))
	for k := range x {
		for i := 0; i+k < len(x); i++ {
			r[k] += x[i] * x[i+k]
		}
	}
	return r
}

func TestAutocorrelation_MatchesDirect(t *testing.T) {
	x := testutil.Sawtooth[float64](300, 700, testutil.SampleRate, 0.9)
	want := direct(x)
	got := Autocorrelation(x)

	require.Len(t, got, len(x))
	for k := range want {
		assert.InDelta(t, want[k], got[k], 1e-9, "k=%d", k)
	}
	testutil.AssertNoNaNOrInf(t, got)
}

func TestAutocorrelation_Empty(t *testing.T) {
	assert.Nil(t, Autocorrelation(nil))
}

func TestBestLag_Sine(t *testing.T) {
	x := testutil.Sine[float64](testutil.WindowSize, 440, testutil.SampleRate, 0.8, 0)
	lag, score := BestLag(x, 4, testutil.WindowSize/2)

	assert.Equal(t, 109, lag)
	testutil.AssertInRange(t, score, 0.8, 1.0)
}

func TestBestLag_NoEnergy(t *testing.T) {
	lag, score := BestLag(make([]float64, 256), 4, 128)
	assert.Zero(t, lag)
	assert.Zero(t, score)
}

func TestBestLag_NoDecay(t *testing.T) {
	// A DC level never decorrelates.
	lag, _ := BestLag(testutil.Constant[float64](256, 0.5), 4, 128)
	assert.Zero(t, lag)
}

func TestBestLag_EmptyRange(t *testing.T) {
	x := testutil.Sine[float64](256, 440, testutil.SampleRate, 0.8, 0)
	lag, _ := BestLag(x, 200, 100)
	assert.Zero(t, lag)
}

func TestBestLag_Octaves(t *testing.T) {
	for _, freq := range []float64{110, 220, 880} {
		x := testutil.Sine[float64](testutil.WindowSize, freq, testutil.SampleRate, 0.5, 0.3)
		lag, _ := BestLag(x, 4, testutil.WindowSize/2)
		assert.InDelta(t, testutil.SampleRate/freq, float64(lag), 1, "freq=%v", freq)
		assert.False(t, math.IsNaN(float64(lag)))
	}
}
