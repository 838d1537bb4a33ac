package analysis

import (
	"fmt"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// Weighter supplies the impact weight of a skill or category.
type Weighter interface {
	Weight(metric string) float64
}

// Weights is a plain weight table; unlisted metrics weigh 1.0.
type Weights map[string]float64

// Weight implements Weighter.
func (w Weights) Weight(metric string) float64 {
	if v, ok := w[metric]; ok {
		return v
	}
	return 1.0
}

// GapResult is one aggregate measured against its benchmark group.
type GapResult struct {
	Key           model.GroupKey `json:"key"`
	Metric        string         `json:"metric"`
	Mean          float64        `json:"mean"`
	Std           float64        `json:"std"`
	Count         int            `json:"count"`
	EfficiencyPct float64        `json:"efficiency_pct"`
	DefectRatePct float64        `json:"defect_rate_pct"`

	BenchmarkKey  model.GroupKey `json:"benchmark_key"`
	BenchmarkMean float64        `json:"benchmark_mean"`
	Gap           float64        `json:"gap"`
	Weight        float64        `json:"weight"`
	WeightedGap   float64        `json:"weighted_gap"`

	// BenchmarkFallback is set when BenchmarkMean is a substituted constant.
	BenchmarkFallback bool `json:"benchmark_fallback,omitempty"`
}

type compareConfig struct {
	fallback    bool
	fallbackVal float64
	onMissing   func(GroupAggregate)
}

// CompareOption configures Compare.
type CompareOption func(*compareConfig)

// WithFallback substitutes value for a missing benchmark mean instead of
// excluding the row. Substituted rows carry BenchmarkFallback.
func WithFallback(value float64) CompareOption {
	return func(c *compareConfig) {
		c.fallback = true
		c.fallbackVal = value
	}
}

// WithMissingHook is called for each aggregate that has no benchmark
// counterpart, whether or not a fallback applies.
func WithMissingHook(fn func(GroupAggregate)) CompareOption {
	return func(c *compareConfig) {
		c.onMissing = fn
	}
}

type metricKey struct {
	key    model.GroupKey
	metric string
}

// Compare measures every aggregate against the aggregate whose key equals
// its own with the benchmark fields substituted, for the same metric.
// gap = benchmark mean - mean; weighted gap = gap * weight(metric).
// Aggregates that already are benchmark groups are skipped; those without
// a benchmark counterpart are excluded unless WithFallback is given.
// A nil weighter weighs every metric 1.0. Output follows input order.
func Compare(aggs []GroupAggregate, benchmark model.GroupKey, weights Weighter, opts ...CompareOption) ([]GapResult, error) {
	if benchmark.IsZero() {
		return nil, fmt.Errorf("%w: no field set", ErrInvalidBenchmark)
	}
	var cfg compareConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if weights == nil {
		weights = Weights(nil)
	}

	out := make([]GapResult, 0, len(aggs))
	if len(aggs) == 0 {
		return out, nil
	}

	idx := make(map[metricKey]GroupAggregate, len(aggs))
	for _, a := range aggs {
		for _, f := range benchmark.SetFields() {
			if a.Key.Get(f) == "" {
				return nil, fmt.Errorf("%w: aggregates are not grouped by %s", ErrInvalidBenchmark, f)
			}
		}
		idx[metricKey{a.Key, a.Metric}] = a
	}

	for _, a := range aggs {
		bkey := a.Key.Overlay(benchmark)
		if bkey == a.Key {
			continue
		}
		r := GapResult{
			Key:           a.Key,
			Metric:        a.Metric,
			Mean:          a.Mean,
			Std:           a.Std,
			Count:         a.Count,
			EfficiencyPct: a.EfficiencyPct,
			DefectRatePct: a.DefectRatePct,
			BenchmarkKey:  bkey,
		}
		if b, ok := idx[metricKey{bkey, a.Metric}]; ok {
			r.BenchmarkMean = b.Mean
		} else {
			if cfg.onMissing != nil {
				cfg.onMissing(a)
			}
			if !cfg.fallback {
				continue
			}
			r.BenchmarkMean = cfg.fallbackVal
			r.BenchmarkFallback = true
		}
		r.Gap = r.BenchmarkMean - r.Mean
		r.Weight = weights.Weight(a.Metric)
		r.WeightedGap = r.Gap * r.Weight
		out = append(out, r)
	}
	return out, nil
}

// Candidates lifts aggregates into rank inputs without a benchmark, for
// presets that score dispersion and defects rather than gaps.
func Candidates(aggs []GroupAggregate) []GapResult {
	out := make([]GapResult, len(aggs))
	for i, a := range aggs {
		out[i] = GapResult{
			Key:           a.Key,
			Metric:        a.Metric,
			Mean:          a.Mean,
			Std:           a.Std,
			Count:         a.Count,
			EfficiencyPct: a.EfficiencyPct,
			DefectRatePct: a.DefectRatePct,
		}
	}
	return out
}

// Top returns the result with the largest weighted gap among those whose
// key matches key on every field key sets. Ties keep the earliest row.
func Top(results []GapResult, key model.GroupKey) (GapResult, bool) {
	var (
		best  GapResult
		found bool
	)
	for _, r := range results {
		if r.Key.Overlay(key) != r.Key {
			continue
		}
		if !found || r.WeightedGap > best.WeightedGap {
			best, found = r, true
		}
	}
	return best, found
}
