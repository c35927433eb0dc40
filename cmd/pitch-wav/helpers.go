package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	pitch "github.com/tphakala/go-bitstream-pitch"
	"github.com/tphakala/go-bitstream-pitch/internal/acf"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	inputRate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)
	if channels < 1 || inputRate <= 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported WAV format: %d Hz, %d channels", inputRate, channels)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", inputRate, channels, bitDepth)
	}

	// Total duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalSamples := int64(duration.Seconds() * float64(inputRate))

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         inputRate,
		channels:     channels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// extractChannelInto copies one channel of interleaved int samples into a
// preallocated float buffer, normalized to [-1, 1].
func extractChannelInto[F Float](data []int, dst []F, numChannels, channel, frames int, invMaxVal float64) {
	if numChannels == 1 {
		for i := range frames {
			dst[i] = F(float64(data[i]) * invMaxVal)
		}
		return
	}

	for i := range frames {
		dst[i] = F(float64(data[i*numChannels+channel]) * invMaxVal)
	}
}

// trackBuffers holds all preallocated buffers for analysis.
type trackBuffers[F Float] struct {
	intBuffer  *audio.IntBuffer
	channelBuf []F
	window     []F
	invMaxVal  float64
}

// newTrackBuffers creates and preallocates all processing buffers.
func newTrackBuffers[F Float](channels, bitDepth, window int, format *audio.Format) *trackBuffers[F] {
	return &trackBuffers[F]{
		intBuffer: &audio.IntBuffer{
			Data:           make([]int, bufferSize*channels),
			Format:         format,
			SourceBitDepth: bitDepth,
		},
		channelBuf: make([]F, bufferSize),
		window:     make([]F, window),
		invMaxVal:  1.0 / getMaxValue(bitDepth),
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// frameResult is the analysis of one window.
type frameResult struct {
	offset    int64        // first sample of the window
	result    pitch.Result // zero value when unvoiced
	reference float64      // FFT autocorrelation estimate in Hz, 0 if none
}

// windowAnalyzer runs the detector, and optionally the FFT reference, on
// successive windows.
type windowAnalyzer[F Float] struct {
	detector   *pitch.Detector[F]
	sampleRate float64
	compare    bool
	scratch    []float64
}

func newWindowAnalyzer[F Float](d *pitch.Detector[F], sampleRate float64, compare bool) *windowAnalyzer[F] {
	return &windowAnalyzer[F]{
		detector:   d,
		sampleRate: sampleRate,
		compare:    compare,
	}
}

// analyze estimates the pitch of window. Windows without a pitch are not
// an error.
func (a *windowAnalyzer[F]) analyze(window []F, offset int64) (frameResult, error) {
	fr := frameResult{offset: offset}

	r, err := a.detector.Detect(window)
	switch {
	case errors.Is(err, pitch.ErrNoPitch):
	case err != nil:
		return fr, fmt.Errorf("window at sample %d: %w", offset, err)
	default:
		fr.result = r
	}

	if a.compare {
		fr.reference = a.reference(window)
	}
	return fr, nil
}

func (a *windowAnalyzer[F]) reference(window []F) float64 {
	if cap(a.scratch) < len(window) {
		a.scratch = make([]float64, len(window))
	}
	a.scratch = a.scratch[:len(window)]
	for i, s := range window {
		a.scratch[i] = float64(s)
	}

	lag, _ := acf.BestLag(a.scratch, a.detector.MinPeriod(), len(window)/2)
	if lag == 0 {
		return 0
	}
	return a.sampleRate / float64(lag)
}

// writeFrame prints one line of the pitch track.
func writeFrame(w io.Writer, fr frameResult, sampleRate float64, compare bool) error {
	seconds := float64(fr.offset) / sampleRate

	var err error
	if fr.result.Voiced() {
		_, err = fmt.Fprintf(w, "%9.3fs %9.2f Hz  amp %.3f  conf %.3f",
			seconds, fr.result.Frequency, fr.result.Amplitude, fr.result.Confidence)
	} else {
		_, err = fmt.Fprintf(w, "%9.3fs %9s", seconds, "-")
	}
	if err != nil {
		return err
	}

	if compare {
		if fr.reference > 0 {
			_, err = fmt.Fprintf(w, "  acf %9.2f Hz", fr.reference)
		} else {
			_, err = fmt.Fprintf(w, "  acf %9s", "-")
		}
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w)
	return err
}
