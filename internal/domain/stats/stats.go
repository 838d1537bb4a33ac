// Package stats wraps the descriptive and regression statistics used by the
// analysis views.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary is the mean, sample standard deviation and size of a sample.
type Summary struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
}

// Summarize computes mean and sample (n-1) standard deviation. A single
// observation has std 0; an empty sample is the zero Summary.
func Summarize(xs []float64) Summary {
	switch len(xs) {
	case 0:
		return Summary{}
	case 1:
		return Summary{Mean: xs[0], Count: 1}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return Summary{Mean: mean, Std: std, Count: len(xs)}
}

// Mean returns the arithmetic mean, NaN for an empty sample.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Quantile returns the p-quantile of xs using the inverse empirical CDF:
// the smallest observation whose cumulative share reaches p. xs is not
// modified.
func Quantile(p float64, xs []float64) (float64, error) {
	if len(xs) == 0 {
		return math.NaN(), ErrEmptySample
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN(), ErrInvalidProbability
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil), nil
}

// Box holds the five numbers shown in a box plot plus the mean.
type Box struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Describe computes box statistics. Quartiles interpolate linearly between
// order statistics at rank (n-1)p, the convention of most dataframe tools.
func Describe(xs []float64) (Box, error) {
	if len(xs) == 0 {
		return Box{}, ErrEmptySample
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	s := Summarize(sorted)
	return Box{
		Mean:   s.Mean,
		Median: interpolate(sorted, 0.5),
		Std:    s.Std,
		Q25:    interpolate(sorted, 0.25),
		Q75:    interpolate(sorted, 0.75),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}, nil
}

func interpolate(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
