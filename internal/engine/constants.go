package engine

// Input limits
const (
	// minWindowWords is the smallest comparison window, in words, for which
	// a Hamming distance carries any information.
	minWindowWords = 1

	// lagRangeFactor: the buffer must hold at least this many times
	// MinPeriod+1 samples for the lag range [MinPeriod, n/2) to be non-empty.
	lagRangeFactor = 2
)

// Sub-sample refinement
const (
	// refineSearchDivisor bounds the search for the second rising crossing
	// to lag/refineSearchDivisor samples on either side of start+lag.
	refineSearchDivisor = 2

	// maxRefineDeviation is the largest accepted |refined - lag| as a
	// fraction of the lag.
	maxRefineDeviation = 0.5
)
