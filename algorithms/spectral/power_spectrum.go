package spectral

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Spectrum returns the forward DFT of signal scaled by the sample interval,
// which puts the result in the same units as a continuous spectral density
// sampled at Frequencies(len(signal), sampleInterval).
func Spectrum(signal []float64, sampleInterval float64) ([]complex128, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if !(sampleInterval > 0) {
		return nil, fmt.Errorf("sample interval must be positive, got %v", sampleInterval)
	}

	coeffs := NewFFT().Compute(signal)
	scale := complex(sampleInterval, 0)
	for i := range coeffs {
		coeffs[i] *= scale
	}
	return coeffs, nil
}

// BackTransform returns (1/T)·IDFT(psd), the autocorrelation implied by a
// spectral density sampled in DFT order. Lag 0 is at index 0.
func BackTransform(psd []float64, sampleInterval float64) ([]float64, error) {
	if len(psd) == 0 {
		return nil, fmt.Errorf("empty spectrum")
	}
	if !(sampleInterval > 0) {
		return nil, fmt.Errorf("sample interval must be positive, got %v", sampleInterval)
	}

	seq := NewFFT().ComputeInverseOfReal(psd)
	out := make([]float64, len(seq))
	for i, v := range seq {
		out[i] = real(v)
	}
	floats.Scale(1/sampleInterval, out)
	return out, nil
}

// Magnitude returns |X| for each coefficient
func Magnitude(coeffs []complex128) []float64 {
	mag := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag[i] = cmplx.Abs(c)
	}
	return mag
}
