// Package scoring turns gap and dispersion figures into a single priority
// score. It owns the impact-weight table and the named scoring presets.
package scoring

import (
	"fmt"
	"strings"
)

// Default scoring configuration constants.
const (
	defaultImpactWeight = 1.0
	defaultMaxScore     = 5.0
)

// Preset names a scoring formula.
type Preset string

// Scoring presets.
const (
	// PresetWeightedGap scores by impact-weighted gap to the benchmark.
	PresetWeightedGap Preset = "weighted_gap"
	// PresetBottleneck scores by (max-mean)*0.4 + std*0.3 + defect*0.3.
	PresetBottleneck Preset = "bottleneck"
	// PresetGapRisk scores by (max-mean)*0.5 + std*0.5.
	PresetGapRisk Preset = "gap_risk"
)

// Presets lists every preset.
func Presets() []Preset {
	return []Preset{PresetWeightedGap, PresetBottleneck, PresetGapRisk}
}

// ParsePreset resolves a preset name. The empty string is weighted_gap.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PresetWeightedGap, nil
	case PresetWeightedGap, PresetBottleneck, PresetGapRisk:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
}

// Input abstracts the figures a preset may read.
type Input struct {
	Mean          float64
	Std           float64
	DefectRatePct float64
	WeightedGap   float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithImpactWeights sets per-skill or per-category impact weights and the
// weight used when neither is listed. Non-positive entries are ignored.
func WithImpactWeights(weights map[string]float64, defaultWeight float64) Option {
	return func(s *Scorer) {
		// Copy the weights map to avoid external modifications
		s.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			if w > 0 {
				s.weights[name] = w
			}
		}
		if defaultWeight > 0 {
			s.defaultWeight = defaultWeight
		}
	}
}

// WithCategoryLookup lets a skill without its own weight inherit its
// category's weight.
func WithCategoryLookup(lookup func(skill string) (string, bool)) Option {
	return func(s *Scorer) {
		s.categoryOf = lookup
	}
}

// WithMaxScore sets the top of the proficiency scale used by risk presets.
func WithMaxScore(maxScore float64) Option {
	return func(s *Scorer) {
		if maxScore > 0 {
			s.maxScore = maxScore
		}
	}
}

// Scorer evaluates presets and looks up impact weights.
type Scorer struct {
	weights       map[string]float64
	defaultWeight float64
	categoryOf    func(string) (string, bool)
	maxScore      float64
}

// NewScorer creates a scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:       make(map[string]float64),
		defaultWeight: defaultImpactWeight,
		maxScore:      defaultMaxScore,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Weight returns the impact weight of a skill or category.
func (s *Scorer) Weight(metric string) float64 {
	if w, ok := s.weights[metric]; ok {
		return w
	}
	if s.categoryOf != nil {
		if cat, ok := s.categoryOf(metric); ok {
			if w, ok := s.weights[cat]; ok {
				return w
			}
		}
	}
	return s.defaultWeight
}

// MaxScore returns the configured top of the proficiency scale.
func (s *Scorer) MaxScore() float64 { return s.maxScore }

// Score evaluates preset p on in.
func (s *Scorer) Score(p Preset, in Input) (float64, error) {
	return Evaluate(p, in, s.maxScore)
}

// Evaluate computes the preset formula with an explicit scale maximum.
func Evaluate(p Preset, in Input, maxScore float64) (float64, error) {
	switch p {
	case PresetWeightedGap:
		return in.WeightedGap, nil
	case PresetBottleneck:
		return (maxScore-in.Mean)*0.4 + in.Std*0.3 + in.DefectRatePct*0.3, nil
	case PresetGapRisk:
		return (maxScore-in.Mean)*0.5 + in.Std*0.5, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
}
