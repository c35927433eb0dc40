package pitch

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"runtime"

	"github.com/tphakala/go-bitstream-pitch/internal/bitstream"
	"github.com/tphakala/go-bitstream-pitch/internal/engine"
	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// Float is the sample type constraint accepted by Detector.
type Float = simdops.Float

// Config holds pitch detection configuration.
type Config struct {
	// SampleRate is the sample rate of the analyzed audio in Hz.
	SampleRate float64

	// MaxFrequency is the highest pitch the detector reports, in Hz.
	// It fixes the shortest lag searched: int(SampleRate / MaxFrequency).
	MaxFrequency float64

	// Encoder selects how samples are reduced to one bit each.
	Encoder EncoderPolicy

	// Threshold is the hysteresis band relative to the peak amplitude.
	// Must be in [0, 1). Zero selects the default of 1e-5.
	Threshold float64

	// Interpolate refines the integer lag to a fractional period using the
	// zero crossings of the raw samples.
	Interpolate bool

	// RemoveDC subtracts the buffer mean before encoding. The reported
	// amplitude is always taken from the samples as given.
	RemoveDC bool

	// EnableParallel shards the lag search across goroutines.
	// Results are identical to the sequential search.
	EnableParallel bool

	// Workers bounds the goroutines used when EnableParallel is set.
	// Zero uses GOMAXPROCS.
	Workers int
}

// EncoderPolicy enumerates the zero-crossing encoders.
type EncoderPolicy int

const (
	// EncoderHysteresis emits the sign of each sample, holding the previous
	// bit while the sample stays within the threshold band around zero.
	EncoderHysteresis EncoderPolicy = iota

	// EncoderSlope emits whether each sample is above its predecessor.
	EncoderSlope
)

// String returns the policy name.
func (p EncoderPolicy) String() string {
	return p.encoder().String()
}

func (p EncoderPolicy) encoder() bitstream.Encoder {
	switch p {
	case EncoderHysteresis:
		return bitstream.EncoderHysteresis
	case EncoderSlope:
		return bitstream.EncoderSlope
	default:
		return bitstream.Encoder(-1)
	}
}

// Common errors returned by the detector.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid pitch detector configuration")

	// ErrInsufficientSamples indicates the buffer is too short to search any lag.
	ErrInsufficientSamples = engine.ErrInsufficientSamples

	// ErrNoPitch indicates silence, a DC level or no periodic structure.
	// The accompanying Result is the (0, 0) sentinel.
	ErrNoPitch = engine.ErrNoPitch

	// ErrMalformedInput indicates a NaN or infinite sample.
	ErrMalformedInput = engine.ErrMalformedInput
)

// DefaultConfig returns the reference configuration: 48 kHz audio, pitches
// up to 10 kHz, hysteresis encoding.
func DefaultConfig() Config {
	return Config{
		SampleRate:   DefaultSampleRate,
		MaxFrequency: DefaultMaxFrequency,
		Encoder:      EncoderHysteresis,
		Threshold:    bitstream.DefaultThreshold,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 || math.IsInf(c.SampleRate, 0) || math.IsNaN(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be positive and finite", ErrInvalidConfig)
	}

	if c.MaxFrequency <= 0 || math.IsNaN(c.MaxFrequency) {
		return fmt.Errorf("%w: max frequency must be positive", ErrInvalidConfig)
	}

	if c.MaxFrequency > c.SampleRate {
		return fmt.Errorf("%w: max frequency %v exceeds sample rate %v", ErrInvalidConfig, c.MaxFrequency, c.SampleRate)
	}

	if !c.Encoder.encoder().Valid() {
		return fmt.Errorf("%w: unknown encoder policy %d", ErrInvalidConfig, int(c.Encoder))
	}

	if c.Threshold < 0 || c.Threshold >= 1 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("%w: threshold must be in [0, 1)", ErrInvalidConfig)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	return nil
}

// MinPeriod returns the shortest lag searched, in samples.
func (c *Config) MinPeriod() int {
	return int(c.SampleRate / c.MaxFrequency)
}

// Result is the outcome of one detection.
type Result struct {
	// Frequency is the estimated fundamental in Hz.
	Frequency float64

	// Amplitude is the peak absolute sample value.
	Amplitude float64

	// Lag is the best integer period in samples.
	Lag int

	// Period is the period used for Frequency. It equals Lag unless
	// interpolation succeeded.
	Period float64

	// Distance is the Hamming distance between the stream and its copy
	// shifted by Lag.
	Distance int

	// Confidence is 1 - Distance / bits compared, in [0, 1].
	Confidence float64

	// RMS is the root mean square of the samples.
	RMS float64
}

// Voiced reports whether r carries a pitch rather than the no-pitch sentinel.
func (r Result) Voiced() bool {
	return r.Frequency > 0
}

// Detector estimates pitch and amplitude of sample windows of type F.
//
// A Detector is immutable after New and safe for concurrent use.
type Detector[F Float] struct {
	config Config
	engine *engine.Detector[F]
}

// New creates a detector with the specified configuration.
// Defaults are applied to a copy; config itself is not modified.
func New[F Float](config *Config) (*Detector[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := *config
	if c.Threshold == 0 {
		c.Threshold = bitstream.DefaultThreshold
	}
	if c.EnableParallel && c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}

	workers := 1
	if c.EnableParallel {
		workers = c.Workers
	}

	e, err := engine.NewDetector[F](engine.Params{
		SampleRate:  c.SampleRate,
		MinPeriod:   c.MinPeriod(),
		Encoder:     c.Encoder.encoder(),
		Threshold:   c.Threshold,
		Interpolate: c.Interpolate,
		RemoveDC:    c.RemoveDC,
		Workers:     workers,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Detector[F]{config: c, engine: e}, nil
}

// Config returns the effective configuration, defaults applied.
func (d *Detector[F]) Config() Config {
	return d.config
}

// MinPeriod returns the shortest lag searched, in samples.
func (d *Detector[F]) MinPeriod() int {
	return d.engine.Params().MinPeriod
}

// MinSamples returns the shortest buffer Detect accepts.
func (d *Detector[F]) MinSamples() int {
	return d.engine.MinSamples()
}

// Detect estimates the fundamental frequency and peak amplitude of samples.
//
// Samples are expected in [-1, 1]. On ErrNoPitch the Result is the zero
// value, whose Frequency and Amplitude form the (0, 0) sentinel.
func (d *Detector[F]) Detect(samples []F) (Result, error) {
	est, err := d.engine.Detect(samples)
	if err != nil {
		return Result{}, err
	}

	confidence := 1 - float64(est.Distance)/float64(est.BitsCompared)
	return Result{
		Frequency:  est.Frequency,
		Amplitude:  est.Amplitude,
		Lag:        est.Lag,
		Period:     est.Period,
		Distance:   est.Distance,
		Confidence: min(max(confidence, minConfidence), maxConfidence),
		RMS:        est.RMS,
	}, nil
}

// Correlogram returns the Hamming distance for every lag Detect considers,
// in ascending lag order. The sequence is lazy and may be ranged over more
// than once.
func (d *Detector[F]) Correlogram(samples []F) (iter.Seq2[int, int], error) {
	return d.engine.Correlogram(samples)
}
