package pitch

// Reference analysis setup used by Estimate and DefaultConfig.
const (
	// DefaultSampleRate is the sample rate assumed by Estimate, in Hz.
	DefaultSampleRate = 48000.0

	// DefaultMaxFrequency is the highest detectable pitch assumed by Estimate, in Hz.
	DefaultMaxFrequency = 10000.0

	// DefaultWindowSize is the analysis window length used by the command-line tools.
	DefaultWindowSize = 2048
)

// PCM conversion
const (
	pcm16FullScale = 32767.0 // int16 positive full scale
)

// Confidence bounds
const (
	minConfidence = 0.0
	maxConfidence = 1.0
)
