package noise

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution selects the marginal distribution of generated samples
type Distribution string

const (
	Gaussian Distribution = "gaussian"
	Uniform  Distribution = "uniform"
)

// WhiteNoise generates independent, identically distributed zero-mean
// samples. Two generators built with the same seed produce bit-identical
// sequences.
type WhiteNoise struct {
	distribution Distribution
	stdDev       float64
	seed         uint64
	src          rand.Source
	sampler      func() float64
}

// NewWhiteNoise creates a seeded white noise generator with the given
// standard deviation.
func NewWhiteNoise(distribution Distribution, stdDev float64, seed uint64) (*WhiteNoise, error) {
	if stdDev < 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return nil, fmt.Errorf("standard deviation must be finite and non-negative, got %v", stdDev)
	}

	w := &WhiteNoise{
		distribution: distribution,
		stdDev:       stdDev,
		seed:         seed,
	}
	if err := w.reset(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewGaussian creates a unit-variance Gaussian generator.
func NewGaussian(seed uint64) *WhiteNoise {
	w, _ := NewWhiteNoise(Gaussian, 1, seed)
	return w
}

func (w *WhiteNoise) reset() error {
	w.src = rand.NewPCG(w.seed, w.seed^0x9e3779b97f4a7c15)

	switch w.distribution {
	case Gaussian:
		d := distuv.Normal{Mu: 0, Sigma: w.stdDev, Src: w.src}
		w.sampler = d.Rand
	case Uniform:
		// a uniform on [-h, h] has variance h²/3
		h := w.stdDev * math.Sqrt(3)
		d := distuv.Uniform{Min: -h, Max: h, Src: w.src}
		w.sampler = d.Rand
	default:
		return fmt.Errorf("unsupported noise distribution %q", w.distribution)
	}
	return nil
}

// Generate returns n fresh samples
func (w *WhiteNoise) Generate(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	w.Fill(out)
	return out
}

// Fill overwrites dst with fresh samples
func (w *WhiteNoise) Fill(dst []float64) {
	for i := range dst {
		dst[i] = w.sampler()
	}
}

// Reseed restarts the sequence from a new seed
func (w *WhiteNoise) Reseed(seed uint64) {
	w.seed = seed
	_ = w.reset()
}

// Seed returns the current seed
func (w *WhiteNoise) Seed() uint64 {
	return w.seed
}

// StdDev returns the configured standard deviation
func (w *WhiteNoise) StdDev() float64 {
	return w.stdDev
}

// Distribution returns the configured distribution
func (w *WhiteNoise) Distribution() Distribution {
	return w.distribution
}
