package engine

import (
	"math"

	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// Peak returns the largest absolute sample value in one pass.
// ok is false if any sample is NaN or infinite, in which case peak is 0.
func Peak[F simdops.Float](samples []F) (peak F, ok bool) {
	for _, s := range samples {
		v := float64(s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak, true
}

// RMS returns the root-mean-square level of samples.
func RMS[F simdops.Float](ops *simdops.Ops[F], samples []F) float64 {
	if len(samples) == 0 {
		return 0
	}
	energy := float64(ops.DotProductUnsafe(samples, samples))
	return math.Sqrt(energy / float64(len(samples)))
}

// removeDC returns a copy of samples with the mean subtracted.
func removeDC[F simdops.Float](ops *simdops.Ops[F], samples []F) []F {
	out := make([]F, len(samples))
	if len(samples) == 0 {
		return out
	}
	mean := ops.Sum(samples) / F(len(samples))
	for i, s := range samples {
		out[i] = s - mean
	}
	return out
}
