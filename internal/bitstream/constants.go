package bitstream

// WordBits is the width W of one packed word. Bit i of a stream lives in
// word i/WordBits at offset i%WordBits, least significant bit first.
const WordBits = 64

// Parallel search tuning
const (
	// minLagsPerWorker keeps shards large enough that goroutine startup
	// does not dominate the popcount work.
	minLagsPerWorker = 32
)

// Default hysteresis threshold, relative to the peak amplitude.
const DefaultThreshold = 1e-5
