package analysis

import (
	"math"
	"math/cmplx"
)

// FFT is a radix-2 transform. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns magnitudes for bins 0..n/2 of the trailing
// power-of-two window of data, with the mean removed.
func PowerSpectrum(data []float64) []float64 {
	window := trailingPow2(data)
	if len(window) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	centered := make([]float64, len(window))
	for i, v := range window {
		centered[i] = v - mean
	}

	fft := FFT(centered)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantPeriod returns the period in seconds of the strongest
// non-constant bin. ok is false for flat or too-short series.
func DominantPeriod(data []float64, dt float64) (period float64, ok bool) {
	if dt <= 0 {
		return 0, false
	}
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, false
	}

	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-9 {
		return 0, false
	}
	n := float64(len(ps) * 2)
	return n * dt / float64(best), true
}

func trailingPow2(data []float64) []float64 {
	n := 1
	for n*2 <= len(data) {
		n *= 2
	}
	if n < 2 {
		return nil
	}
	return data[len(data)-n:]
}
