// Package engine runs the bitstream autocorrelation pitch estimate:
// peak amplitude, zero-crossing encoding, bit-packed lag search and
// conversion of the winning lag to a frequency.
package engine

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/tphakala/go-bitstream-pitch/internal/bitstream"
	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// Errors returned by Detector.
var (
	// ErrInsufficientSamples indicates the buffer is too short for any lag
	// to be measured.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrNoPitch indicates the buffer has no periodic zero-crossing
	// structure, e.g. silence or a DC level.
	ErrNoPitch = errors.New("no pitch detected")

	// ErrMalformedInput indicates a NaN or infinite sample.
	ErrMalformedInput = errors.New("malformed input")
)

// Params configures a Detector. All fields are validated by NewDetector.
type Params struct {
	SampleRate  float64           // Hz
	MinPeriod   int               // shortest lag considered, in samples
	Encoder     bitstream.Encoder // zero-crossing policy
	Threshold   float64           // hysteresis band relative to the peak
	Interpolate bool              // refine the lag to a fractional period
	RemoveDC    bool              // subtract the mean before encoding
	Workers     int               // lag search goroutines; <= 1 is sequential
}

// Estimate is the outcome of one detection.
type Estimate struct {
	Frequency    float64 // Hz
	Amplitude    float64 // peak absolute sample value
	Lag          int     // best integer lag, in samples
	Period       float64 // period used for Frequency, in samples
	Distance     int     // Hamming distance at Lag
	BitsCompared int     // bits summed into each distance
	RMS          float64
}

// Detector estimates pitch for sample buffers of type F.
//
// A Detector holds only its parameters and is safe for concurrent use.
type Detector[F simdops.Float] struct {
	params Params
	ops    *simdops.Ops[F]
}

// NewDetector creates a detector after checking p.
func NewDetector[F simdops.Float](p Params) (*Detector[F], error) {
	if p.SampleRate <= 0 || math.IsInf(p.SampleRate, 0) || math.IsNaN(p.SampleRate) {
		return nil, fmt.Errorf("sample rate must be positive and finite: %v", p.SampleRate)
	}
	if p.MinPeriod < 1 {
		return nil, fmt.Errorf("minimum period must be at least 1 sample: %d", p.MinPeriod)
	}
	if !p.Encoder.Valid() {
		return nil, fmt.Errorf("unknown encoder: %d", p.Encoder)
	}
	if p.Threshold < 0 || p.Threshold >= 1 || math.IsNaN(p.Threshold) {
		return nil, fmt.Errorf("threshold must be in [0, 1): %v", p.Threshold)
	}

	return &Detector[F]{
		params: p,
		ops:    simdops.For[F](),
	}, nil
}

// Params returns the detector parameters.
func (d *Detector[F]) Params() Params {
	return d.params
}

// MinSamples returns the smallest buffer length Detect accepts.
func (d *Detector[F]) MinSamples() int {
	// The comparison window needs ceil(n/W)/2 - 1 >= minWindowWords words,
	// and the lag range [MinPeriod, n/2) needs n/2 > MinPeriod.
	windowMin := (2*(minWindowWords+1)-1)*bitstream.WordBits + 1
	return max(lagRangeFactor*(d.params.MinPeriod+1), windowMin)
}

// Detect estimates the fundamental frequency and peak amplitude of samples.
//
// Errors:
//   - ErrInsufficientSamples if len(samples) < MinSamples()
//   - ErrMalformedInput if a sample is NaN or infinite
//   - ErrNoPitch for silence, DC or any input without a usable period;
//     the returned Estimate is the zero value
func (d *Detector[F]) Detect(samples []F) (Estimate, error) {
	stream, src, peak, err := d.encode(samples)
	if err != nil {
		return Estimate{}, err
	}

	var match bitstream.Match
	if d.params.Workers > 1 {
		match = stream.SearchParallel(d.params.MinPeriod, d.params.Workers)
	} else {
		match = stream.Search(d.params.MinPeriod)
	}
	if match.Lag == 0 {
		return Estimate{}, fmt.Errorf("%w: empty lag range", ErrInsufficientSamples)
	}

	period := float64(match.Lag)
	if d.params.Interpolate {
		if refined, ok := refinePeriod(src, match.Lag); ok {
			period = refined
		}
	}

	hz := d.params.SampleRate / period
	if math.IsInf(hz, 0) || math.IsNaN(hz) || hz <= 0 {
		return Estimate{}, fmt.Errorf("%w: degenerate period %v", ErrNoPitch, period)
	}

	return Estimate{
		Frequency:    hz,
		Amplitude:    float64(peak),
		Lag:          match.Lag,
		Period:       period,
		Distance:     match.Distance,
		BitsCompared: stream.BitsCompared(),
		RMS:          RMS(d.ops, samples),
	}, nil
}

// Correlogram returns the (lag, distance) pairs Detect searches over, as a
// lazy sequence that may be ranged over repeatedly.
func (d *Detector[F]) Correlogram(samples []F) (iter.Seq2[int, int], error) {
	stream, _, _, err := d.encode(samples)
	if err != nil {
		return nil, err
	}
	return stream.Distances(d.params.MinPeriod), nil
}

// encode validates samples and builds the zero-crossing stream. It returns
// the buffer that was encoded (DC-free when RemoveDC is set) and the peak of
// the input samples.
func (d *Detector[F]) encode(samples []F) (*bitstream.Stream, []F, F, error) {
	n := len(samples)
	if need := d.MinSamples(); n < need {
		return nil, nil, 0, fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientSamples, n, need)
	}

	peak, ok := Peak(samples)
	if !ok {
		return nil, nil, 0, fmt.Errorf("%w: non-finite sample", ErrMalformedInput)
	}
	if peak == 0 {
		return nil, nil, 0, fmt.Errorf("%w: silent buffer", ErrNoPitch)
	}

	src := samples
	bandPeak := peak
	if d.params.RemoveDC {
		src = removeDC(d.ops, samples)
		bandPeak, _ = Peak(src)
	}

	threshold := bandPeak * F(d.params.Threshold)
	stream := bitstream.Pack(src, d.params.Encoder, threshold)
	if stream.Transitions() == 0 {
		return nil, nil, 0, fmt.Errorf("%w: no zero crossing", ErrNoPitch)
	}

	return stream, src, peak, nil
}
