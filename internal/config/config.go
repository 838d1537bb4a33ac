// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
)

// Missing-benchmark policies.
const (
	PolicyExclude    = "exclude"
	PolicySubstitute = "substitute"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SkillsCSV and ProductionCSV point at the dataset. When SkillsCSV is
	// empty the service generates a synthetic dataset instead.
	SkillsCSV     string `koanf:"skills_csv"`
	ProductionCSV string `koanf:"production_csv"`

	// Seed, EmployeeCount and ProductionDays drive the generator.
	Seed           int64 `koanf:"seed"`
	EmployeeCount  int   `koanf:"employee_count"`
	ProductionDays int   `koanf:"production_days"`

	// BenchmarkLocation is the site other sites are compared against.
	BenchmarkLocation string `koanf:"benchmark_location"`

	// TierQuantileMedium and TierQuantileHigh split priority scores into tiers.
	TierQuantileMedium float64 `koanf:"tier_quantile_medium"`
	TierQuantileHigh   float64 `koanf:"tier_quantile_high"`

	// ImpactWeights maps skill or category names to business impact weights.
	ImpactWeights map[string]float64 `koanf:"impact_weights"`

	// DefaultImpactWeight is used for names missing from ImpactWeights.
	DefaultImpactWeight float64 `koanf:"default_impact_weight"`

	// MissingBenchmarkPolicy is exclude or substitute. With substitute, groups
	// without a benchmark counterpart compare against MissingBenchmarkValue.
	MissingBenchmarkPolicy string  `koanf:"missing_benchmark_policy"`
	MissingBenchmarkValue  float64 `koanf:"missing_benchmark_value"`

	// MaxSkillScore is the top of the proficiency scale.
	MaxSkillScore float64 `koanf:"max_skill_score"`

	// Loss model of the executive summary, in millions of yen.
	MonthlyProductionValue float64 `koanf:"monthly_production_value"`
	TrainingCostPerPerson  float64 `koanf:"training_cost_per_person"`
	DefectLossMultiplier   float64 `koanf:"defect_loss_multiplier"`

	// Health targets of the monitoring view.
	TargetEfficiency float64 `koanf:"target_efficiency"`
	TargetSkill      float64 `koanf:"target_skill"`
	TargetDefectRate float64 `koanf:"target_defect_rate"`

	// MaxExportRows caps exported priority tables; zero exports everything.
	MaxExportRows int `koanf:"max_export_rows"`

	// Dataset reloads requested over HTTP.
	ReloadQueueCapacity int           `koanf:"reload_queue_capacity"`
	ReloadTimeout       time.Duration `koanf:"reload_timeout"`
	ReloadKeyTTL        time.Duration `koanf:"reload_key_ttl"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		Seed:                   42,
		EmployeeCount:          250,
		ProductionDays:         31,
		BenchmarkLocation:      "JP",
		TierQuantileMedium:     0.5,
		TierQuantileHigh:       0.7,
		ImpactWeights:          catalog.DefaultImpactWeights(),
		DefaultImpactWeight:    1.0,
		MissingBenchmarkPolicy: PolicyExclude,
		MaxSkillScore:          5,
		MonthlyProductionValue: 1000,
		TrainingCostPerPerson:  0.5,
		DefectLossMultiplier:   1.5,
		TargetEfficiency:       85,
		TargetSkill:            3.5,
		TargetDefectRate:       3.0,
		MaxExportRows:          10_000,
		ReloadQueueCapacity:    8,
		ReloadTimeout:          2 * time.Minute,
		ReloadKeyTTL:           time.Hour,
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TierQuantileMedium < 0 || c.TierQuantileHigh > 1 || c.TierQuantileMedium > c.TierQuantileHigh:
		return fmt.Errorf("%w: tier quantiles must satisfy 0 <= medium (%g) <= high (%g) <= 1",
			ErrInvalidConfig, c.TierQuantileMedium, c.TierQuantileHigh)
	case c.MissingBenchmarkPolicy != PolicyExclude && c.MissingBenchmarkPolicy != PolicySubstitute:
		return fmt.Errorf("%w: unknown missing_benchmark_policy %q", ErrInvalidConfig, c.MissingBenchmarkPolicy)
	case c.MaxSkillScore <= 0:
		return fmt.Errorf("%w: max_skill_score must be positive", ErrInvalidConfig)
	case c.DefaultImpactWeight <= 0:
		return fmt.Errorf("%w: default_impact_weight must be positive", ErrInvalidConfig)
	case c.BenchmarkLocation == "":
		return fmt.Errorf("%w: benchmark_location must not be empty", ErrInvalidConfig)
	case c.SkillsCSV == "" && (c.EmployeeCount < 0 || c.ProductionDays < 0):
		return fmt.Errorf("%w: employee_count and production_days must not be negative", ErrInvalidConfig)
	case c.TargetEfficiency <= 0 || c.TargetSkill <= 0:
		return fmt.Errorf("%w: health targets must be positive", ErrInvalidConfig)
	case c.ReloadQueueCapacity <= 0:
		return fmt.Errorf("%w: reload_queue_capacity must be positive", ErrInvalidConfig)
	}
	for name, w := range c.ImpactWeights {
		if w <= 0 {
			return fmt.Errorf("%w: impact weight for %q must be positive", ErrInvalidConfig, name)
		}
	}
	return nil
}
