package spectral

import (
	"fmt"

	dspspectral "github.com/mjibson/go-dsp/spectral"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/windowing"
)

// WelchConfig configures an averaged-periodogram density estimate
type WelchConfig struct {
	SegmentLength int            `json:"segment_length"` // samples per segment, must be even
	Overlap       int            `json:"overlap"`        // samples shared by consecutive segments
	Window        windowing.Type `json:"window"`
}

// DefaultWelchConfig returns 1024-sample Hann segments with 50% overlap
func DefaultWelchConfig() WelchConfig {
	return WelchConfig{
		SegmentLength: 1024,
		Overlap:       512,
		Window:        windowing.Hann,
	}
}

// Validate checks the configuration against a signal length
func (c WelchConfig) Validate(signalLength int) error {
	if c.SegmentLength <= 0 || c.SegmentLength%2 != 0 {
		return fmt.Errorf("segment length must be positive and even, got %d", c.SegmentLength)
	}
	if c.SegmentLength > signalLength {
		return fmt.Errorf("segment length %d exceeds signal length %d", c.SegmentLength, signalLength)
	}
	if c.Overlap < 0 || c.Overlap >= c.SegmentLength {
		return fmt.Errorf("overlap must be in [0, %d), got %d", c.SegmentLength, c.Overlap)
	}
	return nil
}

// WelchEstimate is a one-sided spectral density: interior bins carry the
// power of both the positive and negative frequency.
type WelchEstimate struct {
	Frequencies []float64 `json:"frequencies"`
	Density     []float64 `json:"density"`
	Resolution  float64   `json:"resolution"`
}

// Welch estimates the spectral density of signal sampled every
// sampleInterval using Welch's method.
func Welch(signal []float64, sampleInterval float64, cfg WelchConfig) (*WelchEstimate, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if !(sampleInterval > 0) {
		return nil, fmt.Errorf("sample interval must be positive, got %v", sampleInterval)
	}
	if err := cfg.Validate(len(signal)); err != nil {
		return nil, err
	}

	wf, err := windowing.Func(cfg.Window)
	if err != nil {
		return nil, err
	}

	// Pwelch windows segments in place, keep the caller's slice intact
	x := make([]float64, len(signal))
	copy(x, signal)

	fs := 1 / sampleInterval
	pxx, freqs := dspspectral.Pwelch(x, fs, &dspspectral.PwelchOptions{
		NFFT:     cfg.SegmentLength,
		Noverlap: cfg.Overlap,
		Window:   wf,
	})

	return &WelchEstimate{
		Frequencies: freqs,
		Density:     pxx,
		Resolution:  fs / float64(cfg.SegmentLength),
	}, nil
}

// TotalPower integrates the density over frequency. For a zero-mean signal
// this approximates its variance.
func (w *WelchEstimate) TotalPower() float64 {
	return floats.Sum(w.Density) * w.Resolution
}

// TwoSided returns the density with interior bins halved, directly
// comparable to an even two-sided model at the same non-negative frequencies.
func (w *WelchEstimate) TwoSided() []float64 {
	out := make([]float64, len(w.Density))
	copy(out, w.Density)
	for i := 1; i < len(out)-1; i++ {
		out[i] /= 2
	}
	return out
}
