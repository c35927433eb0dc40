// Package pitch estimates the fundamental frequency and peak amplitude of
// short audio windows in pure Go.
//
// The detector implements the Bitstream Autocorrelation Function (BCF):
// samples are reduced to a one-bit-per-sample zero-crossing stream, packed
// into 64-bit words, and compared against shifted copies of themselves by
// counting differing bits. The lag with the fewest differences is the period.
//
// # Features
//
//   - Integer XOR and population count in the inner loop, no floating point
//   - Generic over float32 and float64 samples
//   - Hysteresis zero-crossing encoder with a noise band relative to the peak
//   - Optional slope encoder, DC removal and sub-sample period refinement
//   - Optional parallel lag search with results identical to the sequential one
//   - Lazy correlogram access through [iter.Seq2]
//   - SIMD-accelerated helpers via github.com/tphakala/simd
//
// # Quick Start
//
// For a single 48 kHz window with the reference settings:
//
//	hz, amp := pitch.Estimate(samples)
//	if hz == 0 {
//	    // silence or no pitch
//	}
//
// For repeated analysis with a reusable detector:
//
//	config := &pitch.Config{
//	    SampleRate:   pitch.RateCD,
//	    MaxFrequency: 4000,
//	    Interpolate:  true,
//	}
//	d, err := pitch.New[float32](config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for window := range windows {
//	    r, err := d.Detect(window)
//	    if errors.Is(err, pitch.ErrNoPitch) {
//	        continue
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%.1f Hz (confidence %.2f)\n", r.Frequency, r.Confidence)
//	}
//
// # Window Length
//
// The lag search covers [MinPeriod, n/2) where MinPeriod is
// int(SampleRate / MaxFrequency), so the lowest detectable pitch is about
// 2 × SampleRate / n. The comparison window spans ceil(n/64)/2 - 1 words and
// must hold at least one word, so buffers need more than 192 samples and more
// than 2 × MinPeriod + 1 samples so the lag range is not empty.
// [Detector.MinSamples] reports the bound.
//
// # Errors
//
// Detection fails with [ErrInsufficientSamples] for short buffers,
// [ErrMalformedInput] for NaN or infinite samples and [ErrNoPitch] for
// silence, DC and inputs without a zero crossing. In the ErrNoPitch case the
// returned [Result] is the zero value, the (0, 0) no-pitch sentinel.
//
// # Thread Safety
//
// A [Detector] is immutable after [New] and safe for concurrent use by
// multiple goroutines. Detection keeps no state between calls.
package pitch
