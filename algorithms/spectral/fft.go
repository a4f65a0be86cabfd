package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides forward and inverse discrete Fourier transforms backed by
// mjibson/go-dsp. The transforms are unnormalized forward, 1/N inverse.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward transform of a real sequence.
// go-dsp handles all sizes, including non-power-of-2 lengths.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputeInverseReal computes inverse FFT and returns real part only
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}
	return realResult
}

// ComputeInverseOfReal computes the inverse transform of a real-valued
// spectrum, such as a sampled power spectral density.
func (f *FFT) ComputeInverseOfReal(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.IFFTReal(x)
}
