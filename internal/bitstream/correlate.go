package bitstream

import (
	"iter"
	"math/bits"
	"sync"
)

// Match is the outcome of a lag search.
type Match struct {
	// Lag is the shift, in samples, with the smallest Hamming distance.
	// Zero means no lag was scanned.
	Lag int

	// Distance is the Hamming distance at Lag.
	Distance int
}

// Window returns the number of words compared per lag: half the word
// count minus one. Every shifted read for a lag below Len()/2 stays inside
// the stream over this window.
func (s *Stream) Window() int {
	return max(len(s.words)/2-1, 0)
}

// BitsCompared returns the number of bit pairs summed into each distance.
func (s *Stream) BitsCompared() int {
	return s.Window() * WordBits
}

// MaxLag returns the exclusive upper bound of the lag range, Len()/2.
func (s *Stream) MaxLag() int {
	return s.n / 2
}

// Distance returns the Hamming distance between the stream and itself
// shifted by lag bits, measured over the first Window() words.
// lag must be in [0, MaxLag()).
func (s *Stream) Distance(lag int) int {
	return s.distance(lag/WordBits, uint(lag%WordBits))
}

func (s *Stream) distance(index int, shift uint) int {
	mid := s.Window()
	count := 0
	for i := range mid {
		count += bits.OnesCount64(s.words[i] ^ s.Get(i+index, shift))
	}
	return count
}

// scan visits lags in [lo, hi) in ascending order. Word index and shift
// advance incrementally instead of being divided out per lag.
func (s *Stream) scan(lo, hi int, visit func(lag, distance int) bool) {
	index := lo / WordBits
	shift := uint(lo % WordBits)
	for pos := lo; pos < hi; pos++ {
		if !visit(pos, s.distance(index, shift)) {
			return
		}
		shift++
		if shift == WordBits {
			shift = 0
			index++
		}
	}
}

// Distances returns the correlogram for lags in [start, MaxLag()) as a lazy
// sequence of (lag, distance) pairs. The sequence is finite and can be
// ranged over any number of times. Lags below 1 are skipped.
func (s *Stream) Distances(start int) iter.Seq2[int, int] {
	start = max(start, 1)
	return func(yield func(int, int) bool) {
		s.scan(start, s.MaxLag(), yield)
	}
}

// Search returns the lag in [start, MaxLag()) with the smallest Hamming
// distance. Ties go to the lowest lag. An empty range yields the zero Match.
func (s *Stream) Search(start int) Match {
	m, _ := s.searchRange(max(start, 1), s.MaxLag())
	return m
}

func (s *Stream) searchRange(lo, hi int) (Match, bool) {
	best := Match{}
	found := false
	s.scan(lo, hi, func(lag, distance int) bool {
		if !found || distance < best.Distance {
			best = Match{Lag: lag, Distance: distance}
			found = true
		}
		return true
	})
	return best, found
}

// SearchParallel is Search with the lag range sharded across up to workers
// goroutines. The shards are reduced in lag order with the same strict
// comparison, so the result is identical to Search.
func (s *Stream) SearchParallel(start, workers int) Match {
	lo := max(start, 1)
	hi := s.MaxLag()
	lags := hi - lo
	workers = min(workers, lags/minLagsPerWorker)
	if workers <= 1 {
		return s.Search(start)
	}

	chunk := (lags + workers - 1) / workers
	matches := make([]Match, workers)
	found := make([]bool, workers)

	var wg sync.WaitGroup
	for w := range workers {
		from := lo + w*chunk
		to := min(from+chunk, hi)
		wg.Add(1)
		go func(slot, from, to int) {
			defer wg.Done()
			matches[slot], found[slot] = s.searchRange(from, to)
		}(w, from, to)
	}
	wg.Wait()

	best := Match{}
	ok := false
	for w, m := range matches {
		if !found[w] {
			continue
		}
		if !ok || m.Distance < best.Distance {
			best = m
			ok = true
		}
	}
	return best
}
