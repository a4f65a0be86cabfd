package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Frequencies returns the DFT bin frequencies for n samples spaced by
// sampleInterval, in cycles per unit of sampleInterval. Bin 0 is DC, then
// positive frequencies up to the middle, then negative frequencies in
// increasing order (most negative first).
func Frequencies(n int, sampleInterval float64) []float64 {
	if n <= 0 {
		return []float64{}
	}

	bins := fourier.NewCmplxFFT(n)
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = bins.Freq(i) / sampleInterval
	}
	return freqs
}

// Shift reorders a DFT-ordered slice so the zero-frequency entry sits in
// the center, ready for display against monotonically increasing frequencies.
func Shift(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	bins := fourier.NewCmplxFFT(len(x))
	out := make([]float64, len(x))
	for i := range out {
		out[i] = x[bins.ShiftIdx(i)]
	}
	return out
}

// Unshift is the inverse of Shift.
func Unshift(x []float64) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	bins := fourier.NewCmplxFFT(len(x))
	out := make([]float64, len(x))
	for i := range out {
		out[i] = x[bins.UnshiftIdx(i)]
	}
	return out
}

// ShiftComplex is Shift for complex spectra.
func ShiftComplex(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	bins := fourier.NewCmplxFFT(len(x))
	out := make([]complex128, len(x))
	for i := range out {
		out[i] = x[bins.ShiftIdx(i)]
	}
	return out
}
