package filters

import (
	"fmt"

	"github.com/RyanBlaney/sonido-turbulence/algorithms/common"
)

// MovingAverage is a causal running-average filter of fixed width. Applied
// to white noise of variance σ² it yields variance σ²/width once the window
// has filled.
type MovingAverage struct {
	width int
}

// NewMovingAverage creates a running-average filter over width samples
func NewMovingAverage(width int) (*MovingAverage, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidWidth, width)
	}
	return &MovingAverage{width: width}, nil
}

// Width returns the averaging window in samples
func (m *MovingAverage) Width() int {
	return m.width
}

// Apply returns the running average of x. The first width-1 outputs average
// only the samples seen so far.
func (m *MovingAverage) Apply(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	window := common.NewCircularBuffer(m.width)
	out := make([]float64, len(x))
	for i, v := range x {
		window.Push(v)
		out[i] = window.Mean()
	}
	return out, nil
}
