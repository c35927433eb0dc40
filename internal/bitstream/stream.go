// Package bitstream packs a zero-crossing encoding of audio samples into
// 64-bit words and correlates the result against shifted copies of itself.
//
// Comparing two windows of the packed stream costs one XOR and one
// population count per word, so scanning every lag of an n-sample buffer
// takes O(n²/W) word operations instead of the O(n²) multiplications of a
// floating-point autocorrelation.
package bitstream

import "github.com/tphakala/go-bitstream-pitch/internal/simdops"

// Stream is an immutable bit-packed zero-crossing stream.
type Stream struct {
	words       []uint64
	n           int
	transitions int
}

// Pack encodes samples with the given policy and packs one bit per sample.
// For EncoderHysteresis, threshold is the absolute noise band (usually the
// peak amplitude times DefaultThreshold); EncoderSlope ignores it.
//
// Words are filled least significant bit first and a word is pushed every
// WordBits samples. The final partial word is pushed as well, with its
// unused high bits left clear.
func Pack[F simdops.Float](samples []F, enc Encoder, threshold F) *Stream {
	n := len(samples)
	s := &Stream{
		words: make([]uint64, 0, (n+WordBits-1)/WordBits),
		n:     n,
	}

	zc := newZeroCross(enc, threshold)
	var (
		register uint64
		k        uint
		last     bool
	)
	for i, sample := range samples {
		bit := zc.next(sample)
		if bit {
			register |= 1 << k
		}
		if i > 0 && bit != last {
			s.transitions++
		}
		last = bit

		k++
		if k == WordBits {
			s.words = append(s.words, register)
			register = 0
			k = 0
		}
	}
	if k > 0 {
		s.words = append(s.words, register)
	}

	return s
}

// FromWords builds a stream of n bits over existing words.
// The caller must supply at least ceil(n/WordBits) words; extra words are dropped.
func FromWords(words []uint64, n int) *Stream {
	count := (n + WordBits - 1) / WordBits
	s := &Stream{
		words: append([]uint64(nil), words[:count]...),
		n:     n,
	}
	for i := 1; i < n; i++ {
		if s.Bit(i) != s.Bit(i-1) {
			s.transitions++
		}
	}
	return s
}

// Len returns the number of logical bits (samples) in the stream.
func (s *Stream) Len() int {
	return s.n
}

// Words returns the packed words. The slice must not be modified.
func (s *Stream) Words() []uint64 {
	return s.words
}

// Bit returns logical bit i.
func (s *Stream) Bit(i int) bool {
	return s.words[i/WordBits]>>(uint(i)%WordBits)&1 == 1
}

// Transitions returns how many times adjacent bits differ.
// A stream with no transitions carries no zero crossing and no period.
func (s *Stream) Transitions() int {
	return s.transitions
}

// Get returns the WordBits-wide window starting shift bits into word index:
//
//	word[index]                                          shift == 0
//	word[index] >> shift | word[index+1] << (W - shift)  shift > 0
//
// shift must be in [0, WordBits). When shift > 0, word index+1 must exist.
func (s *Stream) Get(index int, shift uint) uint64 {
	v := s.words[index]
	if shift > 0 {
		v = v>>shift | s.words[index+1]<<(WordBits-shift)
	}
	return v
}
