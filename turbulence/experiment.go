package turbulence

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/noise"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/spectral"
	"github.com/RyanBlaney/sonido-turbulence/algorithms/stats"
	"github.com/RyanBlaney/sonido-turbulence/logging"
)

// Result holds every array an experiment produces. Lag-indexed slices are
// ordered -MaxLag..MaxLag-1 and frequency-indexed slices are centered, so
// each pair can be plotted directly against Positions or Frequencies.
type Result struct {
	Config       Config               `json:"config"`
	Model        string               `json:"model"`
	Coefficients filters.Coefficients `json:"coefficients"`

	Input  []float64 `json:"input"`
	Output []float64 `json:"output"`
	// Skipped leading samples excluded from the statistics below
	Skipped int `json:"skipped"`

	InputStats  stats.Summary `json:"input_stats"`
	OutputStats stats.Summary `json:"output_stats"`
	StdDevRatio float64       `json:"std_dev_ratio"`
	// PredictedStdDev is the exact stationary output deviation of the filter
	PredictedStdDev float64 `json:"predicted_std_dev"`

	Autocorrelation *stats.AutocorrelationEstimate `json:"autocorrelation"`
	Positions       []float64                      `json:"positions"`
	Correlation     []float64                      `json:"correlation"`     // model R(τ)
	BackTransformed []float64                      `json:"back_transformed"` // (1/T)·IDFT of the model PSD

	Frequencies         []float64 `json:"frequencies"`
	EmpiricalSpectrum   []float64 `json:"empirical_spectrum"`   // |T·DFT| of the estimate
	ModelSpectrum       []float64 `json:"model_spectrum"`       // S(f)
	CorrelationSpectrum []float64 `json:"correlation_spectrum"` // |T·DFT| of the sampled model R(τ)

	Welch      *spectral.WelchEstimate `json:"welch,omitempty"`
	WelchModel []float64               `json:"welch_model,omitempty"` // S(f) at the Welch frequencies
}

// Experiment synthesizes a gust sequence and compares it against its model
type Experiment struct {
	config *Config
	logger logging.Logger
}

// NewExperiment creates an experiment. A nil config selects DefaultConfig.
func NewExperiment(cfg *Config) *Experiment {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Experiment{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "turbulence_experiment",
			"kind":      cfg.Kind,
			"seed":      cfg.Seed,
		}),
	}
}

// Run executes the experiment described by cfg
func Run(cfg *Config) (*Result, error) {
	return NewExperiment(cfg).Run()
}

// Run generates white noise, shapes it, and estimates its statistics
func (e *Experiment) Run() (*Result, error) {
	cfg := e.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := ModelFor(cfg.Kind, cfg.LengthScale)
	if err != nil {
		return nil, err
	}

	source, err := noise.NewWhiteNoise(cfg.Distribution, 1, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("create noise source: %w", err)
	}
	input := source.Generate(cfg.Samples)

	filter, err := filters.Build(cfg.SampleInterval, cfg.LengthScale, cfg.Kind,
		filters.WithInitialCondition(cfg.InitialCondition),
		filters.WithNormalization(cfg.Normalization),
		filters.WithLogger(e.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build %s filter: %w", cfg.Kind, err)
	}

	output, err := filter.Apply(input)
	if err != nil {
		return nil, fmt.Errorf("apply %s filter: %w", cfg.Kind, err)
	}

	variance, err := filter.StationaryVariance()
	if err != nil {
		return nil, fmt.Errorf("stationary variance: %w", err)
	}

	skip := cfg.skip()
	steadyIn, steadyOut := input[skip:], output[skip:]

	res := &Result{
		Config:          *cfg,
		Model:           model.Name(),
		Coefficients:    filter.Coefficients(),
		Input:           input,
		Output:          output,
		Skipped:         skip,
		InputStats:      stats.Summarize(steadyIn),
		OutputStats:     stats.Summarize(steadyOut),
		StdDevRatio:     stats.StdDevRatio(steadyIn, steadyOut),
		PredictedStdDev: math.Sqrt(variance),
	}

	if err := e.estimateCorrelation(res, model, steadyOut); err != nil {
		return nil, err
	}

	if cfg.Welch != nil {
		est, err := spectral.Welch(steadyOut, cfg.SampleInterval, *cfg.Welch)
		if err != nil {
			return nil, fmt.Errorf("welch estimate: %w", err)
		}
		res.Welch = est
		res.WelchModel = SampleModel(model, est.Frequencies)
	}

	e.logger.Info("Experiment completed", logging.Fields{
		"samples":          cfg.Samples,
		"skipped":          skip,
		"std_dev_ratio":    res.StdDevRatio,
		"predicted_std":    res.PredictedStdDev,
		"output_std":       res.OutputStats.StdDev,
		"correlation_lags": res.Autocorrelation.Len(),
	})

	return res, nil
}

// estimateCorrelation fills the lag and frequency domain comparisons
func (e *Experiment) estimateCorrelation(res *Result, model SpectralModel, signal []float64) error {
	cfg := e.config
	T := cfg.SampleInterval

	corr, err := stats.Autocorrelation(signal, cfg.MaxLag, cfg.Stride)
	if err != nil {
		return fmt.Errorf("autocorrelation: %w", err)
	}
	res.Autocorrelation = corr
	res.Positions = corr.Positions(T)
	res.Correlation = SampleCorrelation(model, res.Positions)

	empirical, err := spectral.Spectrum(corr.FFTOrder(), T)
	if err != nil {
		return fmt.Errorf("empirical spectrum: %w", err)
	}

	// Values is lag ordered, the DFT wants lag 0 first
	sampled := spectral.Unshift(res.Correlation)
	fromModel, err := spectral.Spectrum(sampled, T)
	if err != nil {
		return fmt.Errorf("model correlation spectrum: %w", err)
	}

	freqs := spectral.Frequencies(corr.Len(), T)
	psd := SampleModel(model, freqs)

	back, err := spectral.BackTransform(psd, T)
	if err != nil {
		return fmt.Errorf("back transform: %w", err)
	}

	res.Frequencies = spectral.Shift(freqs)
	res.EmpiricalSpectrum = spectral.Shift(spectral.Magnitude(empirical))
	res.ModelSpectrum = spectral.Shift(psd)
	res.CorrelationSpectrum = spectral.Shift(spectral.Magnitude(fromModel))
	res.BackTransformed = spectral.Shift(back)

	e.logger.Debug("Correlation estimated", logging.Fields{
		"max_lag": corr.MaxLag,
		"stride":  corr.Stride,
		"starts":  corr.Samples,
		"r0":      corr.Values[corr.MaxLag],
	})
	return nil
}

// CorrelationError returns the largest |empirical - model| correlation
// over lags with |τ| < within.
func (r *Result) CorrelationError(within float64) float64 {
	worst := 0.0
	for i, tau := range r.Positions {
		if math.Abs(tau) >= within {
			continue
		}
		worst = math.Max(worst, math.Abs(r.Autocorrelation.Values[i]-r.Correlation[i]))
	}
	return worst
}
