package windowing

import (
	"fmt"
	"math"
)

// Type names a window shape used to taper segments before spectral estimation
type Type string

const (
	Rectangular Type = "rectangular"
	Hann        Type = "hann"
	Hamming     Type = "hamming"
	Blackman    Type = "blackman"
	Bartlett    Type = "bartlett"
)

// Window holds precomputed coefficients for one size
type Window struct {
	kind         Type
	size         int
	symmetric    bool
	coefficients []float64
}

// New creates a window of the given type and size. Periodic (symmetric=false)
// windows suit spectral averaging; symmetric ones suit filter design.
func New(kind Type, size int, symmetric bool) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	w := &Window{kind: kind, size: size, symmetric: symmetric}
	if err := w.generate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) generate() error {
	w.coefficients = make([]float64, w.size)
	if w.size == 1 {
		w.coefficients[0] = 1
		return nil
	}

	denominator := float64(w.size)
	if w.symmetric {
		denominator = float64(w.size - 1)
	}

	for i := range w.size {
		arg := 2 * math.Pi * float64(i) / denominator
		switch w.kind {
		case Rectangular:
			w.coefficients[i] = 1.0
		case Hann:
			w.coefficients[i] = 0.5 * (1.0 - math.Cos(arg))
		case Hamming:
			w.coefficients[i] = 0.54 - 0.46*math.Cos(arg)
		case Blackman:
			w.coefficients[i] = 0.42 - 0.5*math.Cos(arg) + 0.08*math.Cos(2*arg)
		case Bartlett:
			w.coefficients[i] = 1.0 - math.Abs(2*float64(i)/denominator-1.0)
		default:
			return fmt.Errorf("unsupported window type %q", w.kind)
		}
	}
	return nil
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	windowed := make([]float64, w.size)
	for i, c := range w.coefficients {
		windowed[i] = signal[i] * c
	}
	return windowed, nil
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// PowerGain returns Σw², the normalization a periodogram divides by
func (w *Window) PowerGain() float64 {
	var sum float64
	for _, c := range w.coefficients {
		sum += c * c
	}
	return sum
}

// Size returns the window size
func (w *Window) Size() int {
	return w.size
}

// Type returns the window type
func (w *Window) Type() Type {
	return w.kind
}

// Func adapts a window type to the func(int) []float64 shape expected by
// go-dsp's spectral estimators. Periodic coefficients are used.
func Func(kind Type) (func(int) []float64, error) {
	if _, err := New(kind, 2, false); err != nil {
		return nil, err
	}
	return func(n int) []float64 {
		w, err := New(kind, n, false)
		if err != nil {
			return nil
		}
		return w.coefficients
	}, nil
}
