package turbulence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/filters"
)

// SpectralModel is a continuous gust model: a two-sided power spectral
// density over ordinary frequency f and its autocorrelation. Both are
// normalized to unit variance.
type SpectralModel interface {
	PSD(f float64) float64
	Correlation(lag float64) float64
	LengthScale() float64
	Name() string
}

// Longitudinal is the Dryden longitudinal gust model
//
//	S(f) = 2L / (1 + (2πfL)²),   R(τ) = exp(-|τ|/L)
type Longitudinal struct {
	L float64 `json:"length_scale"`
}

func (m Longitudinal) PSD(f float64) float64 {
	w := 2 * math.Pi * f * m.L
	return 2 * m.L / (1 + w*w)
}

func (m Longitudinal) Correlation(lag float64) float64 {
	return math.Exp(-math.Abs(lag) / m.L)
}

func (m Longitudinal) LengthScale() float64 { return m.L }

func (m Longitudinal) Name() string { return "longitudinal" }

// Lateral is the Dryden lateral (and vertical) gust model
//
//	S(f) = 2L·(1 + 12(2πfL)²) / (1 + 4(2πfL)²)²
//	R(τ) = (1 - |τ|/(4L))·exp(-|τ|/(2L))
type Lateral struct {
	L float64 `json:"length_scale"`
}

func (m Lateral) PSD(f float64) float64 {
	w2 := math.Pow(2*math.Pi*f*m.L, 2)
	d := 1 + 4*w2
	return 2 * m.L * (1 + 12*w2) / (d * d)
}

func (m Lateral) Correlation(lag float64) float64 {
	x := math.Abs(lag) / m.L
	return (1 - x/4) * math.Exp(-x/2)
}

func (m Lateral) LengthScale() float64 { return m.L }

func (m Lateral) Name() string { return "lateral" }

// ModelFor returns the gust model a filter kind is designed to reproduce
func ModelFor(kind filters.Kind, lengthScale float64) (SpectralModel, error) {
	if !(lengthScale > 0) || math.IsInf(lengthScale, 0) {
		return nil, fmt.Errorf("%w: %v", filters.ErrInvalidLengthScale, lengthScale)
	}
	switch kind {
	case filters.KindLowpass1:
		return Longitudinal{L: lengthScale}, nil
	case filters.KindLateral:
		return Lateral{L: lengthScale}, nil
	default:
		return nil, fmt.Errorf("%w: %q", filters.ErrUnknownKind, kind)
	}
}

// SampleModel evaluates the model PSD at each frequency
func SampleModel(model SpectralModel, freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = model.PSD(f)
	}
	return out
}

// SampleCorrelation evaluates the model autocorrelation at each lag
func SampleCorrelation(model SpectralModel, lags []float64) []float64 {
	out := make([]float64, len(lags))
	for i, tau := range lags {
		out[i] = model.Correlation(tau)
	}
	return out
}

const totalPowerNodes = 64

// TotalPower integrates the two-sided PSD over all frequencies. The
// substitution f = tan(θ)/(2πL) maps the half line onto [0, π/2), where
// Gauss-Legendre nodes never touch the singular endpoint.
func TotalPower(model SpectralModel) float64 {
	scale := 2 * math.Pi * model.LengthScale()
	integrand := func(theta float64) float64 {
		sec := 1 / math.Cos(theta)
		return model.PSD(math.Tan(theta)/scale) * sec * sec / scale
	}
	return 2 * quad.Fixed(integrand, 0, math.Pi/2, totalPowerNodes, quad.Legendre{}, 0)
}
