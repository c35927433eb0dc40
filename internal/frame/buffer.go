// Package frame cuts a sample stream into fixed-size, possibly overlapping
// analysis windows.
package frame

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-bitstream-pitch/internal/simdops"
)

// bufferGrowthFactor is the capacity multiplier used when the ring is full.
const bufferGrowthFactor = 2

// ErrInvalidFraming indicates a window or hop size that cannot be used.
var ErrInvalidFraming = errors.New("invalid framing")

// RingBuffer is a growable circular buffer of samples.
// It is not safe for concurrent use.
type RingBuffer[F simdops.Float] struct {
	data     []F
	size     int
	readPos  int
	writePos int
}

// NewRingBuffer creates a ring buffer with the given initial capacity.
func NewRingBuffer[F simdops.Float](capacity int) *RingBuffer[F] {
	return &RingBuffer[F]{data: make([]F, max(capacity, 1))}
}

// Write appends samples, growing the buffer when needed.
func (b *RingBuffer[F]) Write(samples []F) {
	if len(samples) == 0 {
		return
	}
	if b.size+len(samples) > len(b.data) {
		b.grow(b.size + len(samples))
	}

	for _, s := range samples {
		b.data[b.writePos] = s
		b.writePos = (b.writePos + 1) % len(b.data)
	}
	b.size += len(samples)
}

// PeekInto copies up to len(dst) samples into dst without consuming them
// and returns how many were copied.
func (b *RingBuffer[F]) PeekInto(dst []F) int {
	n := min(len(dst), b.size)
	first := copy(dst[:n], b.data[b.readPos:min(b.readPos+n, len(b.data))])
	copy(dst[first:n], b.data[:n-first])
	return n
}

// Discard drops up to n samples from the front of the buffer.
func (b *RingBuffer[F]) Discard(n int) {
	n = min(max(n, 0), b.size)
	b.readPos = (b.readPos + n) % len(b.data)
	b.size -= n
}

// Available returns the number of samples available for reading.
func (b *RingBuffer[F]) Available() int {
	return b.size
}

// Capacity returns the current buffer capacity.
func (b *RingBuffer[F]) Capacity() int {
	return len(b.data)
}

// grow increases the buffer capacity to at least minCapacity, keeping order.
func (b *RingBuffer[F]) grow(minCapacity int) {
	newCapacity := len(b.data)
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]F, newCapacity)
	b.PeekInto(newData[:b.size])

	b.data = newData
	b.readPos = 0
	b.writePos = b.size % newCapacity
}

// Framer turns pushed samples into windows of Size samples that start Hop
// samples apart. A hop larger than the window skips the samples in between.
type Framer[F simdops.Float] struct {
	size int
	hop  int
	ring *RingBuffer[F]
	pos  int64 // stream offset of the next window
	skip int   // samples still to drop before the next window starts
}

// NewFramer creates a framer for the given window and hop sizes.
func NewFramer[F simdops.Float](size, hop int) (*Framer[F], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: window size must be positive: %d", ErrInvalidFraming, size)
	}
	if hop < 1 {
		return nil, fmt.Errorf("%w: hop must be positive: %d", ErrInvalidFraming, hop)
	}
	return &Framer[F]{
		size: size,
		hop:  hop,
		ring: NewRingBuffer[F](size * bufferGrowthFactor),
	}, nil
}

// Push appends samples to the stream.
func (f *Framer[F]) Push(samples []F) {
	if f.skip > 0 {
		n := min(f.skip, len(samples))
		samples = samples[n:]
		f.skip -= n
	}
	f.ring.Write(samples)
}

// Next fills dst with the next full window and returns the window's
// starting offset in the stream. ok is false when fewer than Size samples
// are buffered or dst is shorter than Size.
func (f *Framer[F]) Next(dst []F) (offset int64, ok bool) {
	if f.ring.Available() < f.size || len(dst) < f.size {
		return 0, false
	}
	f.ring.PeekInto(dst[:f.size])
	offset = f.pos
	f.pos += int64(f.hop)

	if f.hop <= f.ring.Available() {
		f.ring.Discard(f.hop)
		return offset, true
	}

	f.skip = f.hop - f.ring.Available()
	f.ring.Discard(f.ring.Available())
	return offset, true
}

// Size returns the window size.
func (f *Framer[F]) Size() int {
	return f.size
}

// Hop returns the distance between window starts.
func (f *Framer[F]) Hop() int {
	return f.hop
}
