// Package acf computes a floating-point autocorrelation with gonum's FFT.
// It is the O(n log n) reference the bitstream search is checked against.
package acf

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// minFFTSize is the smallest transform used.
const minFFTSize = 64

// Autocorrelation returns r[k] = sum_i x[i]*x[i+k] for k in [0, len(x)).
// The signal is zero padded to at least twice its length so the circular
// correlation computed by the FFT has no wrap-around.
func Autocorrelation(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	size := minFFTSize
	for size < 2*n {
		size *= 2
	}

	padded := make([]float64, size)
	copy(padded, x)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)
	for i, c := range coeffs {
		coeffs[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}

	// gonum's inverse transform is unnormalized.
	r := fft.Sequence(nil, coeffs)
	floats.Scale(1/float64(size), r)
	return r[:n]
}

// BestLag returns the lag in [minLag, maxLag) with the strongest
// autocorrelation after the main lobe around lag 0 has decayed, along with
// its value normalized by r[0]. lag is 0 if the signal has no energy or the
// correlation never drops to zero inside the range.
func BestLag(x []float64, minLag, maxLag int) (lag int, score float64) {
	r := Autocorrelation(x)
	maxLag = min(maxLag, len(r))
	minLag = max(minLag, 1)
	if minLag >= maxLag || r[0] <= 0 {
		return 0, 0
	}

	k := minLag
	for k < maxLag && r[k] > 0 {
		k++
	}
	if k >= maxLag {
		return 0, 0
	}

	lag = k + floats.MaxIdx(r[k:maxLag])
	if r[lag] <= 0 {
		return 0, 0
	}
	return lag, r[lag] / r[0]
}
