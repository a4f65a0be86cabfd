package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PopStandardDeviation calculates the population (n) standard deviation.
// This is the estimator the gust experiments report.
func PopStandardDeviation(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	_, std := stat.PopMeanStdDev(data, nil)
	return std
}

// FirstNonFinite returns the index of the first NaN or Inf value, or -1.
func FirstNonFinite(data []float64) int {
	for i, v := range data {
		if !IsFinite(v) {
			return i
		}
	}
	return -1
}

// IsFinite reports whether v is neither NaN nor Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MaxAbsDiff returns the largest element-wise absolute difference over the
// common prefix of a and b.
func MaxAbsDiff(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	diff := make([]float64, n)
	floats.SubTo(diff, a[:n], b[:n])
	return math.Max(floats.Max(diff), -floats.Min(diff))
}
