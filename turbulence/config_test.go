package turbulence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/noise"
)

func TestDefaultConfigsValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, DefaultLateralConfig().Validate())
	require.NoError(t, DefaultSweepConfig().Validate())
	require.NoError(t, DefaultRoundTripConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero interval", func(c *Config) { c.SampleInterval = 0 }, filters.ErrInvalidSampleInterval},
		{"negative length", func(c *Config) { c.LengthScale = -1 }, filters.ErrInvalidLengthScale},
		{"unknown kind", func(c *Config) { c.Kind = "bandpass" }, filters.ErrUnknownKind},
		{"no samples", func(c *Config) { c.Samples = 0 }, ErrInvalidConfig},
		{"bad distribution", func(c *Config) { c.Distribution = "pink" }, ErrInvalidConfig},
		{"zero stride", func(c *Config) { c.Stride = 0 }, ErrInvalidConfig},
		{"lag window too wide", func(c *Config) { c.MaxLag = c.Samples / 2 }, ErrInvalidConfig},
		{"welch segment too long", func(c *Config) { c.Welch.SegmentLength = 1 << 20 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrInvalidConfig)
}

func TestTransientSkip(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 50, cfg.skip())

	cfg.DiscardTransient = false
	assert.Equal(t, 0, cfg.skip())

	cfg.DiscardTransient = true
	cfg.InitialCondition = filters.InitPeriodic
	assert.Equal(t, 0, cfg.skip())

	lateral := DefaultLateralConfig()
	assert.Equal(t, 1350, lateral.skip())
}

func TestConfigJSON(t *testing.T) {
	cfg := DefaultLateralConfig()
	cfg.InitialCondition = filters.InitPeriodic
	cfg.Normalization = filters.NormalizationUnitVariance
	cfg.Distribution = noise.Uniform

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"initial_condition":"periodic"`)
	assert.Contains(t, string(data), `"normalization":"unit_variance"`)
	assert.Contains(t, string(data), `"kind":"lowpass2-composite"`)

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, &back)

	err = json.Unmarshal([]byte(`{"normalization":"peak"}`), &back)
	assert.Error(t, err)
}

func TestSweepConfigValidate(t *testing.T) {
	cfg := DefaultSweepConfig()
	cfg.Widths = []int{0}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultSweepConfig()
	cfg.Cutoffs = []float64{1.5}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = &SweepConfig{Samples: 16}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestRoundTripConfigValidate(t *testing.T) {
	cfg := DefaultRoundTripConfig()
	cfg.Samples = 801
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultRoundTripConfig()
	cfg.SampleInterval = -1
	assert.ErrorIs(t, cfg.Validate(), filters.ErrInvalidSampleInterval)
}

func TestSampleDistance(t *testing.T) {
	T, err := SampleDistance(100, 30)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/30.0, T, 1e-12)

	T, err = SampleDistance(-50, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, T, 1e-12)

	_, err = SampleDistance(10, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
