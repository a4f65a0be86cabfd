package turbulence

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
)

func TestRoundTripDefault(t *testing.T) {
	res, err := RoundTrip(nil)
	require.NoError(t, err)

	cfg := DefaultRoundTripConfig()
	n := cfg.Samples
	require.Len(t, res.Positions, n)
	assert.Equal(t, 0.0, res.Positions[n/2])
	assert.Equal(t, 1.0, res.Correlation[n/2])
	assert.True(t, sort.Float64sAreSorted(res.Frequencies))

	// two samples per length scale, aliasing dominates near Nyquist
	assert.Less(t, res.SpectrumError/(2*cfg.LengthScale), 0.05)
	assert.Less(t, res.CorrelationError, 0.11)
}

func TestRoundTripResolved(t *testing.T) {
	tests := []struct {
		kind        filters.Kind
		spectrumTol float64
		corrTol     float64
	}{
		{filters.KindLowpass1, 1e-4, 0.015},
		{filters.KindLateral, 5e-4, 0.01},
	}

	for _, tt := range tests {
		cfg := DefaultRoundTripConfig()
		cfg.Kind = tt.kind
		cfg.LengthScale = 0.1

		res, err := RoundTrip(cfg)
		require.NoError(t, err)

		assert.Less(t, res.SpectrumError, tt.spectrumTol, string(tt.kind))
		assert.Less(t, res.CorrelationError, tt.corrTol, string(tt.kind))
	}
}

func TestRoundTripRejectsInvalidConfig(t *testing.T) {
	_, err := RoundTrip(&RoundTripConfig{Kind: filters.KindLowpass1, LengthScale: 1, Samples: 3, SampleInterval: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
