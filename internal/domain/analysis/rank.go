package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/stats"
)

// Tier is a priority band.
type Tier string

// Priority tiers, most urgent first.
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierQuantiles are the score quantiles that separate the tiers.
type TierQuantiles struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// DefaultQuantiles puts the medium cut at the median and the high cut at
// the 70th percentile.
var DefaultQuantiles = TierQuantiles{Medium: 0.5, High: 0.7} //nolint:gochecknoglobals // documented default

// Validate checks 0 <= Medium <= High <= 1.
func (q TierQuantiles) Validate() error {
	if math.IsNaN(q.Medium) || math.IsNaN(q.High) ||
		q.Medium < 0 || q.High > 1 || q.Medium > q.High {
		return fmt.Errorf("%w: medium=%v high=%v", ErrInvalidQuantiles, q.Medium, q.High)
	}
	return nil
}

// Thresholds are the score values at the tier quantiles of one result set.
type Thresholds struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// TierOf places a score: above the high threshold is high, at or above the
// medium threshold is medium, anything else is low.
func (t Thresholds) TierOf(score float64) Tier {
	switch {
	case score > t.High:
		return TierHigh
	case score >= t.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// ComputeThresholds evaluates q over scores with the inverse empirical CDF.
func ComputeThresholds(scores []float64, q TierQuantiles) (Thresholds, error) {
	if err := q.Validate(); err != nil {
		return Thresholds{}, err
	}
	if len(scores) == 0 {
		return Thresholds{}, ErrEmptyInput
	}
	hi, err := stats.Quantile(q.High, scores)
	if err != nil {
		return Thresholds{}, err
	}
	med, err := stats.Quantile(q.Medium, scores)
	if err != nil {
		return Thresholds{}, err
	}
	return Thresholds{Medium: med, High: hi}, nil
}

// PriorityRow is a ranked gap result.
type PriorityRow struct {
	Rank int `json:"rank"`
	GapResult
	Score float64 `json:"score"`
	Tier  Tier    `json:"tier"`
}

type rankConfig struct {
	maxScore float64
}

// RankOption configures Rank.
type RankOption func(*rankConfig)

// WithMaxScore sets the top of the proficiency scale used by risk presets.
func WithMaxScore(maxScore float64) RankOption {
	return func(c *rankConfig) {
		if maxScore > 0 {
			c.maxScore = maxScore
		}
	}
}

// Rank scores every result with preset, sorts by score descending (ties by
// key, then metric) and assigns tiers from quantiles of this set's scores.
// Tiers are relative: the same score can land in a different tier when the
// set changes. An empty input yields an empty, non-nil result.
func Rank(results []GapResult, preset scoring.Preset, q TierQuantiles, opts ...RankOption) ([]PriorityRow, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	cfg := rankConfig{maxScore: float64(model.MaxScore)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if _, err := scoring.Evaluate(preset, scoring.Input{}, cfg.maxScore); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}

	rows := make([]PriorityRow, len(results))
	if len(results) == 0 {
		return rows, nil
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		s, err := scoring.Evaluate(preset, scoring.Input{
			Mean:          r.Mean,
			Std:           r.Std,
			DefectRatePct: r.DefectRatePct,
			WeightedGap:   r.WeightedGap,
		}, cfg.maxScore)
		if err != nil {
			return nil, err
		}
		rows[i] = PriorityRow{GapResult: r, Score: s}
		scores[i] = s
	}

	th, err := ComputeThresholds(scores, q)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Key != b.Key {
			return a.Key.Less(b.Key)
		}
		return a.Metric < b.Metric
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Tier = th.TierOf(rows[i].Score)
	}
	return rows, nil
}
