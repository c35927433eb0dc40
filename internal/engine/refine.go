package engine

import (
	"math"

	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// crossing is a rising zero crossing between samples index-1 and index.
type crossing struct {
	index int
	frac  float64 // linear-interpolated position past index-1, in [0, 1)
}

func (c crossing) position() float64 {
	return float64(c.index-1) + c.frac
}

// risingAt reports whether samples[i-1] <= 0 < samples[i] and, if so,
// where the line through the two samples crosses zero.
func risingAt[F simdops.Float](samples []F, i int) (crossing, bool) {
	prev, curr := float64(samples[i-1]), float64(samples[i])
	if prev > 0 || curr <= 0 {
		return crossing{}, false
	}
	return crossing{index: i, frac: -prev / (curr - prev)}, true
}

// refinePeriod turns an integer lag into a fractional period by measuring
// the distance between the first rising crossing and the rising crossing
// nearest one lag later. ok is false when either crossing is missing or
// the result strays more than half a lag from the integer estimate.
func refinePeriod[F simdops.Float](samples []F, lag int) (period float64, ok bool) {
	n := len(samples)
	if lag <= 0 || n < 2 {
		return 0, false
	}

	var first crossing
	found := false
	for i := 1; i < n; i++ {
		if c, hit := risingAt(samples, i); hit {
			first, found = c, true
			break
		}
	}
	if !found {
		return 0, false
	}

	target := first.index + lag
	reach := lag / refineSearchDivisor
	lo := max(target-reach, first.index+1)
	hi := min(target+reach, n-1)

	var next crossing
	found = false
	for i := lo; i <= hi; i++ {
		c, hit := risingAt(samples, i)
		if !hit {
			continue
		}
		if !found || abs(i-target) < abs(next.index-target) {
			next, found = c, true
		}
	}
	if !found {
		return 0, false
	}

	period = next.position() - first.position()
	if period <= 0 || math.Abs(period-float64(lag)) > maxRefineDeviation*float64(lag) {
		return 0, false
	}
	return period, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
