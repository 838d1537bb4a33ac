package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Strength classifies the magnitude of a correlation coefficient.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// Correlation strength cut-offs on |r|.
const (
	strongCorrelation   = 0.7
	moderateCorrelation = 0.4
)

// StrengthOf labels |r| > 0.7 strong, |r| > 0.4 moderate, otherwise weak.
func StrengthOf(r float64) Strength {
	a := math.Abs(r)
	switch {
	case a > strongCorrelation:
		return StrengthStrong
	case a > moderateCorrelation:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Fit is an ordinary least-squares line y = Intercept + Slope*x.
type Fit struct {
	Slope     float64  `json:"slope"`
	Intercept float64  `json:"intercept"`
	RSquared  float64  `json:"r_squared"`
	R         float64  `json:"r"`
	Strength  Strength `json:"strength"`
	N         int      `json:"n"`
}

// Predict evaluates the fitted line at x.
func (f Fit) Predict(x float64) float64 { return f.Intercept + f.Slope*x }

// LinearFit regresses ys on xs. It needs at least two points and some
// spread in xs. When ys is constant the correlation is reported as 0.
func LinearFit(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, ErrLengthMismatch
	}
	if len(xs) < 2 {
		return Fit{}, ErrInsufficientData
	}
	if stat.Variance(xs, nil) == 0 {
		return Fit{}, ErrDegenerate
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	f := Fit{Slope: beta, Intercept: alpha, N: len(xs)}
	if stat.Variance(ys, nil) == 0 {
		f.Strength = StrengthWeak
		return f, nil
	}
	f.RSquared = stat.RSquared(xs, ys, nil, alpha, beta)
	f.R = stat.Correlation(xs, ys, nil)
	f.Strength = StrengthOf(f.R)
	return f, nil
}
