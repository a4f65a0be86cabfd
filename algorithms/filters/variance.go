package filters

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// stateSpace returns the filter as x[n] = A·x[n-1] + B·u[n], y[n] = C·x[n],
// with one state per recursive section.
func (f *ShapingFilter) stateSpace() (a *mat.Dense, b, c *mat.VecDense) {
	d := f.coeffs.Sections()
	a = mat.NewDense(d, d, nil)
	b = mat.NewVecDense(d, nil)
	c = mat.NewVecDense(d, nil)

	offset := 0
	for _, stage := range f.coeffs.Stages {
		for j := range stage.Order {
			row := offset + j
			if j == 0 {
				b.SetVec(row, stage.Gain)
			} else {
				// section j sees section j-1's current output
				for k := range d {
					a.Set(row, k, stage.Gain*a.At(row-1, k))
				}
				b.SetVec(row, stage.Gain*b.AtVec(row-1))
			}
			a.Set(row, row, a.At(row, row)+stage.Feedback)
		}
		offset += stage.Order
		c.SetVec(offset-1, f.coeffs.OutputScale*stage.Weight)
	}
	return a, b, c
}

// StationaryVariance returns the exact steady-state output variance for
// unit-variance white input, from the discrete Lyapunov equation
// P = A·P·Aᵀ + B·Bᵀ.
func (f *ShapingFilter) StationaryVariance() (float64, error) {
	a, b, c := f.stateSpace()
	d := b.Len()

	var kron mat.Dense
	kron.Kronecker(a, a)

	ones := make([]float64, d*d)
	for i := range ones {
		ones[i] = 1
	}
	var lhs mat.Dense
	lhs.Sub(mat.NewDiagDense(d*d, ones), &kron)

	var bbT mat.Dense
	bbT.Outer(1, b, b)
	rhs := mat.NewVecDense(d*d, append([]float64(nil), bbT.RawMatrix().Data...))

	var vecP mat.VecDense
	if err := vecP.SolveVec(&lhs, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, fmt.Errorf("%w: %v", ErrUnstable, err)
		}
		f.logger.Warn("Ill-conditioned variance solve, poles close to the unit circle")
	}

	p := mat.NewDense(d, d, vecP.RawVector().Data)
	return mat.Inner(c, p, c), nil
}
