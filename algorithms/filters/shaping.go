package filters

import (
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/common"
	"github.com/RyanBlaney/sonido-turbulence/logging"
)

// ShapingFilter turns unit-variance white noise into a correlated sequence
// whose autocorrelation approximates a continuous turbulence model.
//
// The filter is a weighted sum of stages. Each stage is a chain of
// identical first-order recursive sections
//
//	s_j[n] = g·s_{j-1}[n] + a·s_j[n-1],   s_0[n] = x[n]
//
// with feedback a = L_i/(T+L_i), so every pole lies in (0, 1). The output is
//
//	y[n] = OutputScale · Σ_i Weight_i · (last section of stage i)[n]
//
// Two designs are provided:
//
//   - KindLowpass1 (Dryden longitudinal): one stage, one section,
//     a = L/(T+L), g = sqrt(2L/T)·T/(T+L). Output autocorrelation
//     approaches exp(-|τ|/L) as T → 0.
//   - KindLateral (Dryden lateral): a 9/8-weighted single section with
//     length 1.2L and gain (T/(T+1.2L))·sqrt(2·1.2L), minus a 1/8-weighted
//     pair of sections with length 3L and gain (T/(T+3L))·(2·3L)^(1/4),
//     scaled by 1/sqrt(T). The mixing constants are empirical.
type ShapingFilter struct {
	coeffs        Coefficients
	initial       InitialCondition
	normalization Normalization
	logger        logging.Logger
}

// Kind selects the filter design
type Kind string

const (
	KindLowpass1 Kind = "lowpass1"
	KindLateral  Kind = "lowpass2-composite"
)

// InitialCondition selects the recursion state before the first sample
type InitialCondition int

const (
	// InitZero starts every section from zero. Roughly TransientLength()
	// leading samples carry a start-up transient.
	InitZero InitialCondition = iota

	// InitPeriodic primes the state with a first pass over the same buffer,
	// so the first sample's feedback term sees the buffer's tail.
	InitPeriodic
)

func (ic InitialCondition) String() string {
	switch ic {
	case InitZero:
		return "zero"
	case InitPeriodic:
		return "periodic"
	default:
		return "unknown"
	}
}

// ParseInitialCondition maps "zero" or "periodic" to an InitialCondition
func ParseInitialCondition(s string) (InitialCondition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return InitZero, nil
	case "periodic":
		return InitPeriodic, nil
	default:
		return InitZero, fmt.Errorf("unknown initial condition %q", s)
	}
}

func (ic InitialCondition) MarshalText() ([]byte, error) {
	return []byte(ic.String()), nil
}

func (ic *InitialCondition) UnmarshalText(text []byte) error {
	v, err := ParseInitialCondition(string(text))
	if err != nil {
		return err
	}
	*ic = v
	return nil
}

// Normalization selects how the output gain is chosen
type Normalization int

const (
	// NormalizationReference uses the design gains unchanged.
	NormalizationReference Normalization = iota

	// NormalizationUnitVariance rescales the output so its stationary
	// variance is exactly 1 for unit-variance white input, at any T.
	NormalizationUnitVariance
)

func (n Normalization) String() string {
	switch n {
	case NormalizationReference:
		return "reference"
	case NormalizationUnitVariance:
		return "unit_variance"
	default:
		return "unknown"
	}
}

// ParseNormalization maps "reference" or "unit_variance" to a Normalization
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference":
		return NormalizationReference, nil
	case "unit_variance", "unit-variance":
		return NormalizationUnitVariance, nil
	default:
		return NormalizationReference, fmt.Errorf("unknown normalization %q", s)
	}
}

func (n Normalization) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Normalization) UnmarshalText(text []byte) error {
	v, err := ParseNormalization(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Stage is a chain of Order identical first-order sections
type Stage struct {
	LengthScale float64 `json:"length_scale"`
	Feedback    float64 `json:"feedback"` // a, the pole of each section
	Gain        float64 `json:"gain"`     // input gain of each section
	Order       int     `json:"order"`
	Weight      float64 `json:"weight"`
}

// Coefficients fully describe a built filter
type Coefficients struct {
	Kind           Kind    `json:"kind"`
	SampleInterval float64 `json:"sample_interval"`
	LengthScale    float64 `json:"length_scale"`
	Stages         []Stage `json:"stages"`
	OutputScale    float64 `json:"output_scale"`
}

// Sections returns the total number of recursive sections, the size of the
// filter state.
func (c Coefficients) Sections() int {
	n := 0
	for _, s := range c.Stages {
		n += s.Order
	}
	return n
}

// Option configures a ShapingFilter
type Option func(*ShapingFilter)

// WithInitialCondition selects the recursion start state
func WithInitialCondition(ic InitialCondition) Option {
	return func(f *ShapingFilter) { f.initial = ic }
}

// WithNormalization selects the output gain policy
func WithNormalization(n Normalization) Option {
	return func(f *ShapingFilter) { f.normalization = n }
}

// WithLogger replaces the component logger
func WithLogger(logger logging.Logger) Option {
	return func(f *ShapingFilter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Lateral mixing constants
const (
	lateralShortScale  = 1.2
	lateralShortOrder  = 1
	lateralShortWeight = 9.0 / 8.0
	lateralLongScale   = 3.0
	lateralLongOrder   = 2
	lateralLongWeight  = -1.0 / 8.0
)

// Build designs a shaping filter for sample interval T and length scale L.
func Build(sampleInterval, lengthScale float64, kind Kind, opts ...Option) (*ShapingFilter, error) {
	if err := validateScales(sampleInterval, lengthScale); err != nil {
		return nil, err
	}

	f := &ShapingFilter{
		initial:       InitZero,
		normalization: NormalizationReference,
		logger: logging.WithFields(logging.Fields{
			"component": "shaping_filter",
		}),
	}
	for _, opt := range opts {
		opt(f)
	}

	T, L := sampleInterval, lengthScale
	coeffs := Coefficients{
		Kind:           kind,
		SampleInterval: T,
		LengthScale:    L,
	}

	switch kind {
	case KindLowpass1:
		a, b := firstOrder(T, L)
		coeffs.Stages = []Stage{{
			LengthScale: L,
			Feedback:    a,
			Gain:        math.Sqrt(2*L/T) * b,
			Order:       1,
			Weight:      1,
		}}
		coeffs.OutputScale = 1

	case KindLateral:
		l1 := lateralShortScale * L
		l2 := lateralLongScale * L
		a1, b1 := firstOrder(T, l1)
		a2, b2 := firstOrder(T, l2)
		coeffs.Stages = []Stage{
			{
				LengthScale: l1,
				Feedback:    a1,
				Gain:        b1 * math.Pow(2*l1, 1.0/2),
				Order:       lateralShortOrder,
				Weight:      lateralShortWeight,
			},
			{
				LengthScale: l2,
				Feedback:    a2,
				Gain:        b2 * math.Pow(2*l2, 1.0/4),
				Order:       lateralLongOrder,
				Weight:      lateralLongWeight,
			},
		}
		coeffs.OutputScale = 1 / math.Sqrt(T)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	f.coeffs = coeffs
	if err := f.checkStable(); err != nil {
		return nil, err
	}

	if f.normalization == NormalizationUnitVariance {
		variance, err := f.StationaryVariance()
		if err != nil {
			return nil, fmt.Errorf("normalize %s filter: %w", kind, err)
		}
		if !(variance > 0) || !common.IsFinite(variance) {
			return nil, fmt.Errorf("%w: stationary variance %v", ErrUnstable, variance)
		}
		f.coeffs.OutputScale /= math.Sqrt(variance)
	}

	if T > L {
		f.logger.Warn("Sample interval exceeds length scale, output variance will be attenuated", logging.Fields{
			"sample_interval": T,
			"length_scale":    L,
		})
	}

	f.logger.Debug("Shaping filter built", logging.Fields{
		"kind":          kind,
		"stages":        len(f.coeffs.Stages),
		"output_scale":  f.coeffs.OutputScale,
		"initial":       f.initial.String(),
		"normalization": f.normalization.String(),
	})

	return f, nil
}

// firstOrder returns the feedback a = L/(T+L) and the complementary
// b = T/(T+L), which together give unit DC gain.
func firstOrder(T, L float64) (a, b float64) {
	return L / (T + L), T / (T + L)
}

func validateScales(sampleInterval, lengthScale float64) error {
	if !(sampleInterval > 0) || math.IsInf(sampleInterval, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleInterval, sampleInterval)
	}
	if !(lengthScale > 0) || math.IsInf(lengthScale, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidLengthScale, lengthScale)
	}
	return nil
}

func (f *ShapingFilter) checkStable() error {
	for i, s := range f.coeffs.Stages {
		if !(math.Abs(s.Feedback) < 1) {
			return fmt.Errorf("%w: stage %d pole %v (T=%v, L=%v)",
				ErrUnstable, i, s.Feedback, f.coeffs.SampleInterval, s.LengthScale)
		}
		if !common.IsFinite(s.Gain) {
			return fmt.Errorf("%w: stage %d gain %v", ErrUnstable, i, s.Gain)
		}
	}
	if !common.IsFinite(f.coeffs.OutputScale) {
		return fmt.Errorf("%w: output scale %v", ErrUnstable, f.coeffs.OutputScale)
	}
	return nil
}

// Coefficients returns a copy of the filter design
func (f *ShapingFilter) Coefficients() Coefficients {
	c := f.coeffs
	c.Stages = append([]Stage(nil), f.coeffs.Stages...)
	return c
}

// Poles returns the feedback pole of every section, stage by stage
func (f *ShapingFilter) Poles() []float64 {
	poles := make([]float64, 0, f.coeffs.Sections())
	for _, s := range f.coeffs.Stages {
		for range s.Order {
			poles = append(poles, s.Feedback)
		}
	}
	return poles
}

// Stable reports whether every pole lies strictly inside the unit circle
func (f *ShapingFilter) Stable() bool {
	for _, p := range f.Poles() {
		if !(math.Abs(p) < 1) {
			return false
		}
	}
	return true
}

// TransientLength returns the number of leading samples a zero-state run
// should discard, five of the slowest stage's length scales.
func (f *ShapingFilter) TransientLength() int {
	longest := 0.0
	for _, s := range f.coeffs.Stages {
		longest = math.Max(longest, s.LengthScale)
	}
	return TransientLength(f.coeffs.SampleInterval, longest)
}

// TransientLength returns ceil(5L/T), the start-up transient of a
// first-order section with length scale L sampled every T.
func TransientLength(sampleInterval, lengthScale float64) int {
	if !(sampleInterval > 0) || !(lengthScale > 0) {
		return 0
	}
	return int(math.Ceil(5 * lengthScale / sampleInterval))
}

// KindTransientLength returns TransientLength for the slowest stage a
// filter of the given kind would have, without building it.
func KindTransientLength(kind Kind, sampleInterval, lengthScale float64) int {
	if kind == KindLateral {
		return TransientLength(sampleInterval, lateralLongScale*lengthScale)
	}
	return TransientLength(sampleInterval, lengthScale)
}

// Kind returns the filter design
func (f *ShapingFilter) Kind() Kind {
	return f.coeffs.Kind
}

// InitialCondition returns the configured start state
func (f *ShapingFilter) InitialCondition() InitialCondition {
	return f.initial
}

// Normalization returns the configured gain policy
func (f *ShapingFilter) Normalization() Normalization {
	return f.normalization
}
