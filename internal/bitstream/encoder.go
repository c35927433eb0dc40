package bitstream

import "github.com/tphakala/go-bitstream-pitch/internal/simdops"

// Encoder selects how a sample sequence is reduced to one bit per sample.
type Encoder int

const (
	// EncoderHysteresis tracks the sign of the signal with a noise band
	// around zero. A sample above +t sets the state, a sample below -t
	// clears it, anything in between carries the previous state forward.
	// The state starts low.
	EncoderHysteresis Encoder = iota

	// EncoderSlope emits whether each sample is above the previous one
	// (the first sample is compared against zero). It follows rising and
	// falling slope rather than sign and has no noise band.
	EncoderSlope
)

// String returns the encoder name.
func (e Encoder) String() string {
	switch e {
	case EncoderHysteresis:
		return "hysteresis"
	case EncoderSlope:
		return "slope"
	default:
		return "unknown"
	}
}

// Valid reports whether e is a known encoder.
func (e Encoder) Valid() bool {
	return e == EncoderHysteresis || e == EncoderSlope
}

// zeroCross holds the per-call encoder state.
type zeroCross[F simdops.Float] struct {
	policy    Encoder
	threshold F
	state     bool
	prev      F
}

func newZeroCross[F simdops.Float](policy Encoder, threshold F) zeroCross[F] {
	return zeroCross[F]{policy: policy, threshold: threshold}
}

// next consumes one sample and returns its bit.
func (z *zeroCross[F]) next(s F) bool {
	if z.policy == EncoderSlope {
		bit := s > z.prev
		z.prev = s
		return bit
	}

	if s < -z.threshold {
		z.state = false
	} else if s > z.threshold {
		z.state = true
	}
	return z.state
}
