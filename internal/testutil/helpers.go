// Package testutil provides signal generators and assertions shared by the
// pitch detector tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// Reference analysis setup.
const (
	SampleRate   = 48000.0
	MaxFrequency = 10000.0
	WindowSize   = 2048
)

// Default tolerances for various test scenarios.
const (
	// FrequencyTolerance is the accepted relative frequency error (2%).
	FrequencyTolerance = 0.02

	// AmplitudeTolerance is the accepted absolute amplitude error.
	AmplitudeTolerance = 0.01
)

// Sine returns n samples of amp*sin(2*pi*freq*t + phase).
func Sine[F simdops.Float](n int, freq, sampleRate, amp, phase float64) []F {
	out := make([]F, n)
	omega := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = F(amp * math.Sin(omega*float64(i)+phase))
	}
	return out
}

// Square returns n samples of a square wave alternating between +amp and -amp,
// starting high.
func Square[F simdops.Float](n int, freq, sampleRate, amp float64) []F {
	out := make([]F, n)
	period := sampleRate / freq
	for i := range out {
		if math.Mod(float64(i), period) < period/2 {
			out[i] = F(amp)
		} else {
			out[i] = F(-amp)
		}
	}
	return out
}

// Sawtooth returns n samples of a rising sawtooth in [-amp, amp).
func Sawtooth[F simdops.Float](n int, freq, sampleRate, amp float64) []F {
	out := make([]F, n)
	period := sampleRate / freq
	for i := range out {
		frac := math.Mod(float64(i), period) / period
		out[i] = F(amp * (2*frac - 1))
	}
	return out
}

// Constant returns n samples all equal to v.
func Constant[F simdops.Float](n int, v float64) []F {
	out := make([]F, n)
	for i := range out {
		out[i] = F(v)
	}
	return out
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertFrequency verifies a detected frequency is within FrequencyTolerance of want.
func AssertFrequency(t *testing.T, want, got float64) bool {
	t.Helper()
	return AssertRelativeError(t, want, got, FrequencyTolerance)
}
