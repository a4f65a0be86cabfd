package turbulence

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/noise"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/spectral"
)

// ErrInvalidConfig is returned by every Validate method
var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes one gust synthesis experiment
type Config struct {
	Seed           uint64             `json:"seed"`
	Kind           filters.Kind       `json:"kind"`
	SampleInterval float64            `json:"sample_interval"` // T, distance or time between samples
	LengthScale    float64            `json:"length_scale"`    // L, in the units of T
	Samples        int                `json:"samples"`
	Distribution   noise.Distribution `json:"distribution"`

	// Autocorrelation window, lags -MaxLag..MaxLag-1 averaged every Stride samples
	MaxLag int `json:"max_lag"`
	Stride int `json:"stride"`

	InitialCondition filters.InitialCondition `json:"initial_condition"`
	Normalization    filters.Normalization    `json:"normalization"`

	// DiscardTransient drops the leading TransientLength samples of a
	// zero-state run before statistics are taken
	DiscardTransient bool `json:"discard_transient"`

	// Welch, when set, adds an averaged-periodogram estimate to the result
	Welch *spectral.WelchConfig `json:"welch,omitempty"`
}

// DefaultConfig returns the longitudinal reference run: L = 0.1, T = 0.01,
// 10240 samples and a 1000-lag window sampled every 50 samples.
func DefaultConfig() *Config {
	welch := spectral.DefaultWelchConfig()
	return &Config{
		Seed:             1,
		Kind:             filters.KindLowpass1,
		SampleInterval:   0.01,
		LengthScale:      0.1,
		Samples:          10240,
		Distribution:     noise.Gaussian,
		MaxLag:           500,
		Stride:           50,
		InitialCondition: filters.InitZero,
		Normalization:    filters.NormalizationReference,
		DiscardTransient: true,
		Welch:            &welch,
	}
}

// DefaultLateralConfig returns the lateral reference run: L = 300 m sampled
// at 100 m/s and 30 frames per second.
func DefaultLateralConfig() *Config {
	cfg := DefaultConfig()
	cfg.Kind = filters.KindLateral
	cfg.LengthScale = 300
	cfg.SampleInterval, _ = SampleDistance(100, 30)
	cfg.MaxLag = 1000
	cfg.Stride = 100
	return cfg
}

// Validate checks that the experiment can run
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if !(c.SampleInterval > 0) || math.IsInf(c.SampleInterval, 0) {
		return fmt.Errorf("%w: %w: %v", ErrInvalidConfig, filters.ErrInvalidSampleInterval, c.SampleInterval)
	}
	if !(c.LengthScale > 0) || math.IsInf(c.LengthScale, 0) {
		return fmt.Errorf("%w: %w: %v", ErrInvalidConfig, filters.ErrInvalidLengthScale, c.LengthScale)
	}
	if _, err := ModelFor(c.Kind, c.LengthScale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	}
	switch c.Distribution {
	case noise.Gaussian, noise.Uniform:
	default:
		return fmt.Errorf("%w: unsupported distribution %q", ErrInvalidConfig, c.Distribution)
	}
	if c.Stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidConfig, c.Stride)
	}
	if c.MaxLag <= 0 || 2*c.MaxLag > c.analysisLength() {
		return fmt.Errorf("%w: max lag %d does not fit %d analysed samples",
			ErrInvalidConfig, c.MaxLag, c.analysisLength())
	}
	if c.Welch != nil {
		if err := c.Welch.Validate(c.analysisLength()); err != nil {
			return fmt.Errorf("%w: welch: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// skip returns the number of leading samples excluded from statistics
func (c *Config) skip() int {
	if !c.DiscardTransient || c.InitialCondition != filters.InitZero {
		return 0
	}
	return min(filters.KindTransientLength(c.Kind, c.SampleInterval, c.LengthScale), c.Samples)
}

func (c *Config) analysisLength() int {
	return c.Samples - c.skip()
}

// SweepConfig drives the smoothing experiments: moving averages of
// increasing width and brick-wall low-passes of decreasing cutoff applied to
// the same white noise.
type SweepConfig struct {
	Seed    uint64    `json:"seed"`
	Samples int       `json:"samples"`
	Widths  []int     `json:"widths"`
	Cutoffs []float64 `json:"cutoffs"` // fraction of the Nyquist band kept
}

// DefaultSweepConfig returns 10240 samples, power-of-two widths and cutoffs
// from 0.9 down to 0.01 of Nyquist.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Seed:    1,
		Samples: 10240,
		Widths:  []int{1, 2, 4, 8, 16, 32, 64},
		Cutoffs: []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0.05, 0.01},
	}
}

// Validate checks the sweep parameters
func (c *SweepConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil sweep config", ErrInvalidConfig)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	}
	if len(c.Widths) == 0 && len(c.Cutoffs) == 0 {
		return fmt.Errorf("%w: sweep needs widths or cutoffs", ErrInvalidConfig)
	}
	for _, w := range c.Widths {
		if w <= 0 || w > c.Samples {
			return fmt.Errorf("%w: width %d outside [1, %d]", ErrInvalidConfig, w, c.Samples)
		}
	}
	for _, f := range c.Cutoffs {
		if !(f > 0 && f <= 1) {
			return fmt.Errorf("%w: cutoff %v outside (0, 1]", ErrInvalidConfig, f)
		}
	}
	return nil
}

// RoundTripConfig describes the analytic Fourier round trip on a centered
// grid of Samples points spaced SampleInterval apart.
type RoundTripConfig struct {
	Kind           filters.Kind `json:"kind"`
	LengthScale    float64      `json:"length_scale"`
	Samples        int          `json:"samples"`
	SampleInterval float64      `json:"sample_interval"`
}

// DefaultRoundTripConfig returns L = 0.01 sampled 800 times at 200 Hz
func DefaultRoundTripConfig() *RoundTripConfig {
	return &RoundTripConfig{
		Kind:           filters.KindLowpass1,
		LengthScale:    0.01,
		Samples:        800,
		SampleInterval: 1.0 / 200.0,
	}
}

// Validate checks the round trip parameters
func (c *RoundTripConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil round trip config", ErrInvalidConfig)
	}
	if !(c.SampleInterval > 0) || math.IsInf(c.SampleInterval, 0) {
		return fmt.Errorf("%w: %w: %v", ErrInvalidConfig, filters.ErrInvalidSampleInterval, c.SampleInterval)
	}
	if _, err := ModelFor(c.Kind, c.LengthScale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Samples < 2 || c.Samples%2 != 0 {
		return fmt.Errorf("%w: samples must be even and at least 2, got %d", ErrInvalidConfig, c.Samples)
	}
	return nil
}

// SampleDistance converts a frozen-turbulence flight into a sample
// interval: flying at speed relative to the advected gust field and sampling
// frameRate times per second, consecutive samples are |speed|/frameRate apart.
func SampleDistance(speed, frameRate float64) (float64, error) {
	if !(frameRate > 0) || math.IsInf(frameRate, 0) {
		return 0, fmt.Errorf("%w: frame rate must be positive and finite, got %v", ErrInvalidConfig, frameRate)
	}
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return 0, fmt.Errorf("%w: speed must be finite, got %v", ErrInvalidConfig, speed)
	}
	return math.Abs(speed) / frameRate, nil
}
