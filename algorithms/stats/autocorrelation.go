package stats

import (
	"errors"
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

var (
	// ErrEmptySignal is returned for zero-length input
	ErrEmptySignal = errors.New("empty signal")
	// ErrInvalidLagWindow is returned when the lag window does not fit the signal
	ErrInvalidLagWindow = errors.New("invalid lag window")
	// ErrInvalidStride is returned for a non-positive stride
	ErrInvalidStride = errors.New("invalid stride")
)

// AutocorrelationEstimate holds an empirical autocorrelation for lags
// -MaxLag..MaxLag-1. Values[i] belongs to lag i-MaxLag.
type AutocorrelationEstimate struct {
	Values  []float64 `json:"values"`
	MaxLag  int       `json:"max_lag"`
	Stride  int       `json:"stride"`
	Samples int       `json:"samples"` // start indices averaged
}

// Autocorrelation estimates the autocorrelation of signal by averaging
// signal[k]·signal[(k+lag) mod N] over k = 0, stride, 2·stride, ...
//
// The signal is treated as periodic. A larger stride is cheaper and noisier.
func Autocorrelation(signal []float64, maxLag, stride int) (*AutocorrelationEstimate, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptySignal
	}
	if maxLag <= 0 || 2*maxLag > n {
		return nil, fmt.Errorf("%w: max lag %d for %d samples", ErrInvalidLagWindow, maxLag, n)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStride, stride)
	}

	values := make([]float64, 2*maxLag)
	samples := 0
	for k := 0; k < n; k += stride {
		samples++
		xk := signal[k]
		for lag := -maxLag; lag < maxLag; lag++ {
			idx := (k + lag) % n
			if idx < 0 {
				idx += n
			}
			values[lag+maxLag] += xk * signal[idx]
		}
	}

	norm := 1 / float64(samples)
	for i := range values {
		values[i] *= norm
	}

	return &AutocorrelationEstimate{
		Values:  values,
		MaxLag:  maxLag,
		Stride:  stride,
		Samples: samples,
	}, nil
}

// Len returns the number of lags in the estimate
func (a *AutocorrelationEstimate) Len() int {
	return len(a.Values)
}

// Lags returns the integer lag for each entry of Values
func (a *AutocorrelationEstimate) Lags() []int {
	lags := make([]int, len(a.Values))
	for i := range lags {
		lags[i] = i - a.MaxLag
	}
	return lags
}

// Positions returns lag·sampleInterval for each entry of Values
func (a *AutocorrelationEstimate) Positions(sampleInterval float64) []float64 {
	pos := make([]float64, len(a.Values))
	for i := range pos {
		pos[i] = float64(i-a.MaxLag) * sampleInterval
	}
	return pos
}

// At returns the estimate at lag, and false when lag is outside the window
func (a *AutocorrelationEstimate) At(lag int) (float64, bool) {
	if lag < -a.MaxLag || lag >= a.MaxLag {
		return 0, false
	}
	return a.Values[lag+a.MaxLag], true
}

// FFTOrder returns the values rearranged with lag 0 first and negative lags
// at the tail, the layout a DFT expects for an even sequence.
func (a *AutocorrelationEstimate) FFTOrder() []float64 {
	m := len(a.Values)
	out := make([]float64, m)
	for i, v := range a.Values {
		lag := i - a.MaxLag
		out[(lag+m)%m] = v
	}
	return out
}

// CircularAutocorrelation returns the full periodic autocorrelation of
// signal, lag 0 first, via the Wiener-Khinchin relation. It equals the
// stride-1 direct estimate at every lag.
func CircularAutocorrelation(signal []float64) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptySignal
	}

	coeffs := fft.FFTReal(signal)
	power := make([]float64, n)
	for i, c := range coeffs {
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}

	seq := fft.IFFTReal(power)
	out := make([]float64, n)
	for i, v := range seq {
		out[i] = real(v) / float64(n)
	}
	return out, nil
}
