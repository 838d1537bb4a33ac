package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_SingleObservationHasZeroStd(t *testing.T) {
	s := Summarize([]float64{4})
	assert.Equal(t, Summary{Mean: 4, Std: 0, Count: 1}, s)
}

func TestSummarize_SampleStd(t *testing.T) {
	s := Summarize([]float64{3, 4})
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 3.5, s.Mean, 1e-12)
	assert.InDelta(t, 0.7071, s.Std, 1e-4)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.True(t, math.IsNaN(Mean(nil)))
}

func TestQuantile_InverseEmpiricalCDF(t *testing.T) {
	xs := []float64{10, 1, 4, 2, 3}

	q50, err := Quantile(0.5, xs)
	require.NoError(t, err)
	assert.Equal(t, 3.0, q50)

	q70, err := Quantile(0.7, xs)
	require.NoError(t, err)
	assert.Equal(t, 4.0, q70)

	// input is left untouched
	assert.Equal(t, []float64{10, 1, 4, 2, 3}, xs)
}

func TestQuantile_Errors(t *testing.T) {
	_, err := Quantile(0.5, nil)
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = Quantile(1.2, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

// TestQuantile_Invariants_WithinRangeAndMonotone property-tests that the
// quantile is an observation of the sample and never decreases with p.
func TestQuantile_Invariants_WithinRangeAndMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(20) + 1
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = math.Round(rng.Float64()*50) / 10
		}

		prev := math.Inf(-1)
		for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.7, 0.9, 1} {
			q, err := Quantile(p, xs)
			require.NoError(t, err)
			assert.Contains(t, xs, q, "trial %d: quantile %.2f must be an observation", trial, p)
			assert.GreaterOrEqual(t, q, prev, "trial %d: quantile must not decrease at p=%.2f", trial, p)
			prev = q
		}
	}
}

func TestDescribe(t *testing.T) {
	b, err := Describe([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, b.Median, 1e-12)
	assert.InDelta(t, 1.75, b.Q25, 1e-12)
	assert.InDelta(t, 3.25, b.Q75, 1e-12)
	assert.Equal(t, 1.0, b.Min)
	assert.Equal(t, 4.0, b.Max)

	_, err = Describe(nil)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestLinearFit_ExactLine(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{3, 5, 7, 9, 11}

	f, err := LinearFit(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, f.Slope, 1e-9)
	assert.InDelta(t, 1.0, f.Intercept, 1e-9)
	assert.InDelta(t, 1.0, f.RSquared, 1e-9)
	assert.InDelta(t, 1.0, f.R, 1e-9)
	assert.Equal(t, StrengthStrong, f.Strength)
	assert.InDelta(t, 13.0, f.Predict(6), 1e-9)
}

func TestLinearFit_Errors(t *testing.T) {
	_, err := LinearFit([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = LinearFit([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = LinearFit([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestLinearFit_ConstantResponse(t *testing.T) {
	f, err := LinearFit([]float64{1, 2, 3}, []float64{5, 5, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f.Slope, 1e-12)
	assert.Equal(t, 0.0, f.R)
	assert.Equal(t, StrengthWeak, f.Strength)
}

func TestStrengthOf(t *testing.T) {
	assert.Equal(t, StrengthStrong, StrengthOf(-0.8))
	assert.Equal(t, StrengthModerate, StrengthOf(0.5))
	assert.Equal(t, StrengthWeak, StrengthOf(0.4))
}
