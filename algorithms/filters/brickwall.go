package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/spectral"
)

// BrickWallLowpass removes every DFT bin above cutoff·Nyquist and returns the
// real inverse transform. cutoff is in (0, 1]; 1 keeps the signal intact.
// On white noise the output variance is cutoff times the input variance.
func BrickWallLowpass(x []float64, cutoff float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if !(cutoff > 0 && cutoff <= 1) {
		return nil, fmt.Errorf("%w: cutoff %v outside (0, 1]", ErrInvalidWidth, cutoff)
	}

	n := len(x)
	f := spectral.NewFFT()
	coeffs := f.Compute(x)

	// bins 0..keep-1 and their mirrors survive
	keep := int(cutoff*float64(n/2)) + 1
	for k := keep; k <= n-keep; k++ {
		coeffs[k] = 0
	}

	return f.ComputeInverseReal(coeffs), nil
}
