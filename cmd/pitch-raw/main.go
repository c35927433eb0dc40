// Command pitch-raw estimates the pitch of raw PCM recordings.
//
// Each file holds signed 16-bit little-endian mono samples. Only the first
// window is analyzed.
//
// Usage:
//
//	pitch-raw a1.raw a2.raw sine.raw
//	pitch-raw -rate 44100 -max-freq 4000 voice.raw
//	pitch-raw -demo
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	pitch "github.com/tphakala/go-bitstream-pitch"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		window  = flag.Int("window", pitch.DefaultWindowSize, "Samples analyzed from the start of each file")
		rate    = flag.Float64("rate", defaultSampleRate, "Sample rate of the recordings in Hz")
		maxFreq = flag.Float64("max-freq", defaultMaxFrequency, "Highest pitch to report in Hz")
		demo    = flag.Bool("demo", false, "Analyze generated A4 sine, sawtooth and square waves")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if *window < 1 {
		return fmt.Errorf("window must be at least 1 sample: %d", *window)
	}

	d, err := pitch.New[float32](&pitch.Config{
		SampleRate:   *rate,
		MaxFrequency: *maxFreq,
	})
	if err != nil {
		return err
	}
	if *verbose {
		info := d.Info()
		log.Printf("Window: %d samples (minimum %d)", *window, info.MinSamples)
		log.Printf("Lag search from %d samples, %d-bit words", info.MinPeriod, info.WordBits)
	}

	if *demo {
		return runDemo(d, *window, os.Stdout)
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.raw...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("no input files")
	}

	for _, path := range flag.Args() {
		samples, err := readFile(path, *window)
		if err != nil {
			return err
		}
		if *verbose && len(samples) < *window {
			log.Printf("%s: only %d samples", path, len(samples))
		}
		if err := report(os.Stdout, displayName(path), d, samples); err != nil {
			return err
		}
	}
	return nil
}

// readFile loads up to n samples from a raw PCM file.
func readFile(path string, n int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	pcm, err := readPCM16(f, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pitch.NormalizePCM16[float32](nil, pcm), nil
}

// readPCM16 reads up to n little-endian int16 samples. A short input is not
// an error; a trailing odd byte is dropped.
func readPCM16(r io.Reader, n int) ([]int16, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count must be positive: %d", n)
	}
	buf := make([]byte, n*bytesPerSample16)
	read, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	pcm := make([]int16, read/bytesPerSample16)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(buf[i*bytesPerSample16:]))
	}
	return pcm, nil
}

// displayName turns "path/to/sine_a4.raw" into "SINE_A4".
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// report prints "NAME: <hz> Hz, <amplitude> Vl". Windows without a pitch
// print the (0, 0) sentinel; other failures name the cause.
func report(w io.Writer, name string, d *pitch.Detector[float32], samples []float32) error {
	r, err := d.Detect(samples)
	switch {
	case err == nil, errors.Is(err, pitch.ErrNoPitch):
		_, err = fmt.Fprintf(w, "%s: %g Hz, %g Vl\n", name, float32(r.Frequency), float32(r.Amplitude))
	default:
		_, err = fmt.Fprintf(w, "%s: 0 Hz, 0 Vl (%v)\n", name, err)
	}
	return err
}

func runDemo(d *pitch.Detector[float32], window int, w io.Writer) error {
	rate := d.Config().SampleRate
	omega := 2 * math.Pi * demoFrequency / rate
	period := rate / demoFrequency

	signals := []struct {
		name string
		gen  func(i int) float64
	}{
		{"SINE_A4", func(i int) float64 { return math.Sin(omega * float64(i)) }},
		{"SAW_A4", func(i int) float64 { return 2*math.Mod(float64(i), period)/period - 1 }},
		{"SQUARE_A4", func(i int) float64 {
			if math.Mod(float64(i), period) < period/2 {
				return 1
			}
			return -1
		}},
		{"SILENCE", func(int) float64 { return 0 }},
	}

	// Generated through int16 like a recording would be.
	pcm := make([]int16, window)
	samples := make([]float32, window)
	for _, s := range signals {
		for i := range pcm {
			pcm[i] = int16(math.Round(s.gen(i) * demoAmplitude * math.MaxInt16))
		}
		samples = pitch.NormalizePCM16(samples, pcm)
		if err := report(w, s.name, d, samples); err != nil {
			return err
		}
	}
	return nil
}
