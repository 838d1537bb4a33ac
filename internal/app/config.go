package service

import (
	"slices"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/config"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/synth"
)

// OptionsFromConfig translates a loaded configuration into service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	gen := synth.DefaultConfig()
	gen.Seed = cfg.Seed
	gen.Employees = cfg.EmployeeCount
	gen.Days = cfg.ProductionDays
	if b := cfg.BenchmarkLocation; b != "" && b != gen.Benchmark {
		// The displaced benchmark stays in the dataset as an ordinary site.
		gen.Lagging = without(gen.Lagging, b)
		gen.Others = append(without(gen.Others, b), gen.Benchmark)
		gen.Benchmark = b
	}

	opts := []Option{
		WithGenerator(gen),
		WithBenchmarkLocation(cfg.BenchmarkLocation),
		WithTierQuantiles(analysis.TierQuantiles{Medium: cfg.TierQuantileMedium, High: cfg.TierQuantileHigh}),
		WithImpactWeights(cfg.ImpactWeights, cfg.DefaultImpactWeight),
		WithMaxScore(cfg.MaxSkillScore),
		WithLossParams(kpi.LossParams{
			MonthlyProductionValue: cfg.MonthlyProductionValue,
			TrainingCostPerPerson:  cfg.TrainingCostPerPerson,
			DefectLossMultiplier:   cfg.DefectLossMultiplier,
		}),
		WithHealthTargets(kpi.HealthTargets{
			EfficiencyPct: cfg.TargetEfficiency,
			Skill:         cfg.TargetSkill,
			DefectRatePct: cfg.TargetDefectRate,
		}),
		WithMaxExportRows(cfg.MaxExportRows),
	}
	if cfg.SkillsCSV != "" {
		opts = append(opts, WithDataFiles(cfg.SkillsCSV, cfg.ProductionCSV))
	}
	if cfg.MissingBenchmarkPolicy == config.PolicySubstitute {
		opts = append(opts, WithMissingBenchmarkFallback(cfg.MissingBenchmarkValue))
	}
	return opts
}

func without(values []string, v string) []string {
	return slices.DeleteFunc(slices.Clone(values), func(s string) bool { return s == v })
}
