package pitch

import (
	"github.com/tphakala/go-bitstream-pitch/internal/bitstream"
	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050

	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000
)

// Detect estimates pitch of a float64 window with a one-off detector.
func Detect(samples []float64, sampleRate, maxFrequency float64) (Result, error) {
	return detectOnce(samples, sampleRate, maxFrequency)
}

// DetectFloat32 is like Detect but for float32 samples.
func DetectFloat32(samples []float32, sampleRate, maxFrequency float64) (Result, error) {
	return detectOnce(samples, sampleRate, maxFrequency)
}

func detectOnce[F Float](samples []F, sampleRate, maxFrequency float64) (Result, error) {
	d, err := New[F](&Config{
		SampleRate:   sampleRate,
		MaxFrequency: maxFrequency,
		Encoder:      EncoderHysteresis,
	})
	if err != nil {
		return Result{}, err
	}
	return d.Detect(samples)
}

// Estimate returns the frequency in Hz and the peak amplitude of samples
// recorded at DefaultSampleRate, searching pitches up to DefaultMaxFrequency.
// Any failure, including silence and short buffers, yields (0, 0).
func Estimate[F Float](samples []F) (hz, amplitude F) {
	r, err := detectOnce(samples, DefaultSampleRate, DefaultMaxFrequency)
	if err != nil {
		return 0, 0
	}
	return F(r.Frequency), F(r.Amplitude)
}

// NormalizePCM16 converts signed 16-bit PCM to samples in [-1, 1] by dividing
// by 32767. The result is written to dst, which is grown if needed, and
// returned. -32768 maps slightly below -1.
func NormalizePCM16[F Float](dst []F, pcm []int16) []F {
	if cap(dst) < len(pcm) {
		dst = make([]F, len(pcm))
	}
	dst = dst[:len(pcm)]
	for i, v := range pcm {
		dst[i] = F(v)
	}
	simdops.For[F]().Scale(dst, dst, F(1/pcm16FullScale))
	return dst
}

// Info describes the detector implementation.
type Info struct {
	// Algorithm names the pitch estimation method.
	Algorithm string

	// WordBits is the packed word width of the bit stream.
	WordBits int

	// MinPeriod is the shortest lag searched, in samples. Zero when the
	// Info does not describe a specific Detector.
	MinPeriod int

	// MinSamples is the shortest buffer accepted. Zero when the Info does
	// not describe a specific Detector.
	MinSamples int

	// Workers is the number of goroutines the lag search may use.
	Workers int

	// SIMDEnabled indicates if SIMD optimizations are active.
	SIMDEnabled bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

const algorithmName = "bitstream-autocorrelation"

// GetInfo returns information about the library build and host.
func GetInfo() Info {
	info := Info{
		Algorithm: algorithmName,
		WordBits:  bitstream.WordBits,
		Workers:   1,
	}
	if simd := simdops.Info(); simd != "" {
		info.SIMDEnabled = true
		info.SIMDType = simd
	}
	return info
}

// Info returns information about the detector.
func (d *Detector[F]) Info() Info {
	info := GetInfo()
	info.MinPeriod = d.MinPeriod()
	info.MinSamples = d.MinSamples()
	info.Workers = d.engine.Params().Workers
	return info
}
