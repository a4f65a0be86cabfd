package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/common"
	"github.com/RyanBlaney/sonido-turbulence/logging"
)

// state holds the previous output of every section, stage by stage. It is
// owned by a single Apply call.
type state [][]float64

func (f *ShapingFilter) newState() state {
	s := make(state, len(f.coeffs.Stages))
	for i, stage := range f.coeffs.Stages {
		s[i] = make([]float64, stage.Order)
	}
	return s
}

// step advances every section by one input sample and returns the output
func (f *ShapingFilter) step(s state, x float64) float64 {
	var y float64
	for i, stage := range f.coeffs.Stages {
		v := x
		sections := s[i]
		for j := range sections {
			sections[j] = stage.Gain*v + stage.Feedback*sections[j]
			v = sections[j]
		}
		y += stage.Weight * v
	}
	return f.coeffs.OutputScale * y
}

func (f *ShapingFilter) run(x, out []float64, s state) {
	for n, v := range x {
		out[n] = f.step(s, v)
	}
}

// Apply filters x and returns a freshly allocated output of the same length.
func (f *ShapingFilter) Apply(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if idx := common.FirstNonFinite(x); idx >= 0 {
		return nil, fmt.Errorf("%w: input index %d is %v", ErrNonFinite, idx, x[idx])
	}

	out := make([]float64, len(x))
	s := f.newState()

	if f.initial == InitPeriodic {
		// prime pass, its final state seeds the real pass
		f.run(x, out, s)
	}
	f.run(x, out, s)

	if idx := common.FirstNonFinite(out); idx >= 0 {
		f.logger.Error(ErrNonFinite, "Filter output diverged", logging.Fields{
			"index": idx,
			"kind":  f.coeffs.Kind,
		})
		return nil, fmt.Errorf("%w: output index %d is %v", ErrNonFinite, idx, out[idx])
	}

	return out, nil
}

// ImpulseResponse returns the first n output samples for a unit impulse
// applied to a zero-state filter.
func (f *ShapingFilter) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	out := make([]float64, n)
	s := f.newState()
	out[0] = f.step(s, 1)
	for i := 1; i < n; i++ {
		out[i] = f.step(s, 0)
	}
	return out
}
