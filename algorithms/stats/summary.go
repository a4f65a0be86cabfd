package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the marginal statistics of a sequence
type Summary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`  // population estimator
	Variance float64 `json:"variance"` // population estimator
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Samples  int     `json:"samples"`

	// Shape of the marginal distribution, both zero for a Gaussian
	Skewness       float64 `json:"skewness"`
	ExcessKurtosis float64 `json:"excess_kurtosis"`
}

// Summarize computes a Summary. An empty input yields the zero Summary.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}

	mean, variance := stat.PopMeanVariance(x, nil)
	_, std := stat.PopMeanStdDev(x, nil)
	s := Summary{
		Mean:     mean,
		StdDev:   std,
		Variance: variance,
		Min:      floats.Min(x),
		Max:      floats.Max(x),
		Samples:  len(x),
	}

	// the sample estimators need four points and some spread
	if len(x) >= 4 && std > 0 {
		s.Skewness = stat.Skew(x, nil)
		s.ExcessKurtosis = stat.ExKurtosis(x, nil)
	}
	return s
}

// StdDevRatio returns std(output)/std(input), the gain a filter applies to
// the marginal spread of its input. Zero when the input is constant.
func StdDevRatio(input, output []float64) float64 {
	in := Summarize(input).StdDev
	if in == 0 {
		return 0
	}
	return Summarize(output).StdDev / in
}
