package turbulence

import (
	"fmt"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/common"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/spectral"
	"github.com/RyanBlaney/sonido-turbulence/logging"
)

// RoundTripResult compares a model's correlation and spectrum through the
// discrete transform in both directions. All slices are centered.
type RoundTripResult struct {
	Positions   []float64 `json:"positions"`
	Frequencies []float64 `json:"frequencies"`

	Correlation []float64 `json:"correlation"` // R(x) sampled on the grid
	Spectrum    []float64 `json:"spectrum"`    // |T·DFT(R)|
	ModelPSD    []float64 `json:"model_psd"`   // S(f) at the bin frequencies
	Recovered   []float64 `json:"recovered"`   // (1/T)·IDFT(S)

	// SpectrumError is max |Spectrum - ModelPSD|, CorrelationError is
	// max |Recovered - Correlation|
	SpectrumError    float64 `json:"spectrum_error"`
	CorrelationError float64 `json:"correlation_error"`
}

// RoundTrip samples the model correlation on a centered grid, transforms it,
// and checks the result against the analytic spectrum, then runs the analytic
// spectrum back the other way. A nil config selects DefaultRoundTripConfig.
func RoundTrip(cfg *RoundTripConfig) (*RoundTripResult, error) {
	if cfg == nil {
		cfg = DefaultRoundTripConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := ModelFor(cfg.Kind, cfg.LengthScale)
	if err != nil {
		return nil, err
	}

	n, T := cfg.Samples, cfg.SampleInterval
	positions := make([]float64, n)
	for i := range positions {
		positions[i] = float64(i-n/2) * T
	}
	correlation := SampleCorrelation(model, positions)

	coeffs, err := spectral.Spectrum(spectral.Unshift(correlation), T)
	if err != nil {
		return nil, fmt.Errorf("forward transform: %w", err)
	}

	freqs := spectral.Frequencies(n, T)
	psd := SampleModel(model, freqs)

	back, err := spectral.BackTransform(psd, T)
	if err != nil {
		return nil, fmt.Errorf("inverse transform: %w", err)
	}

	res := &RoundTripResult{
		Positions:   positions,
		Frequencies: spectral.Shift(freqs),
		Correlation: correlation,
		Spectrum:    spectral.Shift(spectral.Magnitude(coeffs)),
		ModelPSD:    spectral.Shift(psd),
		Recovered:   spectral.Shift(back),
	}
	res.SpectrumError = common.MaxAbsDiff(res.Spectrum, res.ModelPSD)
	res.CorrelationError = common.MaxAbsDiff(res.Recovered, res.Correlation)

	logging.Debug("Round trip completed", logging.Fields{
		"component":         "round_trip",
		"model":             model.Name(),
		"spectrum_error":    res.SpectrumError,
		"correlation_error": res.CorrelationError,
	})

	return res, nil
}
