// Command pitch-wav prints a pitch track of a WAV file.
//
// Usage:
//
//	pitch-wav input.wav
//	pitch-wav -window 4096 -hop 512 -max-freq 2000 vocals.wav
//	pitch-wav -fast -channel 1 stereo.wav          # float32 samples, right channel
//	pitch-wav -compare input.wav                   # add an FFT autocorrelation estimate
//
// Each analysis window produces one line with its start time, frequency,
// peak amplitude and confidence. Windows without a pitch print "-".
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	pitch "github.com/tphakala/go-bitstream-pitch"
	"github.com/tphakala/go-bitstream-pitch/internal/frame"
)

const (
	// Buffer size for decoding (number of frames per chunk)
	bufferSize = 65536

	// Sample format constants
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt8          = 127.0
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	minRequiredArgs = 1
	percentScale    = 100
	hopDivisor      = 2 // default hop is half a window
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	window := flag.Int("window", pitch.DefaultWindowSize, "Analysis window length in samples")
	hop := flag.Int("hop", 0, "Samples between window starts (0 = half a window)")
	channel := flag.Int("channel", 0, "Channel to analyze (0-based)")
	maxFreq := flag.Float64("max-freq", pitch.DefaultMaxFrequency, "Highest pitch to report in Hz")
	fast := flag.Bool("fast", false, "Use float32 samples instead of float64")
	interpolate := flag.Bool("interpolate", false, "Refine periods to fractional samples")
	removeDC := flag.Bool("remove-dc", false, "Subtract each window's mean before encoding")
	parallel := flag.Bool("parallel", false, "Shard the lag search across CPU cores")
	compare := flag.Bool("compare", false, "Also print an FFT autocorrelation estimate per window")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s tone.wav                       # 2048-sample windows, 1024 hop\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -max-freq 1000 -interpolate voice.wav\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	opts := trackOptions{
		window:      *window,
		hop:         *hop,
		channel:     *channel,
		maxFreq:     *maxFreq,
		interpolate: *interpolate,
		removeDC:    *removeDC,
		parallel:    *parallel,
		compare:     *compare,
		verbose:     *verbose,
	}
	if opts.hop == 0 {
		opts.hop = max(opts.window/hopDivisor, 1)
	}

	inputPath := args[0]
	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Window: %d samples, hop %d", opts.window, opts.hop)
		log.Printf("Max frequency: %g Hz", opts.maxFreq)
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64")
		}
		info := pitch.GetInfo()
		log.Printf("Algorithm: %s, %d-bit words, SIMD: %v (%s)",
			info.Algorithm, info.WordBits, info.SIMDEnabled, info.SIMDType)
	}

	start := time.Now()
	var stats *trackStats
	var err error
	if *fast {
		stats, err = trackWAV[float32](inputPath, opts, os.Stdout)
	} else {
		stats, err = trackWAV[float64](inputPath, opts, os.Stdout)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Analyzed %s\n", filepath.Base(inputPath))
	fmt.Printf("  %d Hz, channel %d of %d, %d-bit\n",
		stats.rate, opts.channel, stats.channels, stats.bitDepth)
	fmt.Printf("  %d windows, %d voiced\n", stats.windows, stats.voiced)
	if stats.voiced > 0 {
		fmt.Printf("  Mean pitch: %.2f Hz\n", stats.pitchSum/float64(stats.voiced))
	}
	if elapsed > 0 && stats.rate > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(),
			float64(stats.inputSamples)/float64(stats.rate)/elapsed.Seconds())
	}

	return nil
}

// trackOptions holds the analysis flags.
type trackOptions struct {
	window      int
	hop         int
	channel     int
	maxFreq     float64
	interpolate bool
	removeDC    bool
	parallel    bool
	compare     bool
	verbose     bool
}

type trackStats struct {
	rate         int
	channels     int
	bitDepth     int
	inputSamples int64
	windows      int
	voiced       int
	pitchSum     float64
}

// Float constraint for generic analysis.
type Float interface {
	float32 | float64
}

func trackWAV[F Float](inputPath string, opts trackOptions, out io.Writer) (*trackStats, error) {
	// 1. Open and validate input
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if opts.channel < 0 || opts.channel >= input.channels {
		return nil, fmt.Errorf("channel %d out of range (file has %d)", opts.channel, input.channels)
	}

	// 2. Create detector and framer
	detector, err := newDetector[F](input.rate, opts)
	if err != nil {
		return nil, err
	}
	if opts.window < detector.MinSamples() {
		return nil, fmt.Errorf("window of %d samples is too short, need at least %d",
			opts.window, detector.MinSamples())
	}

	framer, err := frame.NewFramer[F](opts.window, opts.hop)
	if err != nil {
		return nil, err
	}

	// 3. Initialize processing buffers
	buffers := newTrackBuffers[F](input.channels, input.bitDepth, opts.window, input.format)
	analyzer := newWindowAnalyzer(detector, float64(input.rate), opts.compare)

	stats := &trackStats{
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
	}
	progress := newProgressTracker(input.totalSamples, opts.verbose)

	// 4. Main processing loop
	for {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / input.channels
		if frames == 0 {
			break
		}
		stats.inputSamples += int64(frames)

		extractChannelInto(
			buffers.intBuffer.Data[:n],
			buffers.channelBuf,
			input.channels, opts.channel, frames,
			buffers.invMaxVal,
		)
		framer.Push(buffers.channelBuf[:frames])

		for {
			offset, ok := framer.Next(buffers.window)
			if !ok {
				break
			}
			fr, err := analyzer.analyze(buffers.window, offset)
			if err != nil {
				return nil, err
			}
			stats.windows++
			if fr.result.Voiced() {
				stats.voiced++
				stats.pitchSum += fr.result.Frequency
			}
			if err := writeFrame(out, fr, float64(input.rate), opts.compare); err != nil {
				return nil, fmt.Errorf("failed to write result: %w", err)
			}
		}

		progress.reportIfNeeded(stats.inputSamples)
	}

	return stats, nil
}

func newDetector[F Float](rate int, opts trackOptions) (*pitch.Detector[F], error) {
	d, err := pitch.New[F](&pitch.Config{
		SampleRate:     float64(rate),
		MaxFrequency:   min(opts.maxFreq, float64(rate)),
		Interpolate:    opts.interpolate,
		RemoveDC:       opts.removeDC,
		EnableParallel: opts.parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}
	return d, nil
}
