package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/export"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// Operation names used in logs and metrics.
const (
	OpAggregate    = "aggregate"
	OpGaps         = "gaps"
	OpPriorities   = "priorities"
	OpBottlenecks  = "bottlenecks"
	OpDistribution = "distribution"
	OpSummary      = "summary"
	OpMonitoring   = "monitoring"
	OpTrend        = "trend"
	OpShifts       = "shifts"
	OpInvestment   = "investment"
	OpExport       = "export"
	OpReload       = "reload"
)

// PriorityReport is a ranked, tiered result set.
type PriorityReport struct {
	Preset     scoring.Preset         `json:"preset"`
	Benchmark  model.GroupKey         `json:"benchmark"`
	Quantiles  analysis.TierQuantiles `json:"quantiles"`
	Thresholds analysis.Thresholds    `json:"thresholds"`
	Tiers      map[analysis.Tier]int  `json:"tiers"`
	Total      int                    `json:"total"`
	Rows       []analysis.PriorityRow `json:"rows"`
}

// InvestmentPlan is the training case for one site.
type InvestmentPlan struct {
	Location string  `json:"location"`
	Skill    string  `json:"skill"`
	Gap      float64 `json:"gap"`
	kpi.Investment
}

// CatalogView lists the skill hierarchy and the scoring presets.
type CatalogView struct {
	Categories []catalog.Category `json:"categories"`
	Presets    []scoring.Preset   `json:"presets"`
	Benchmark  string             `json:"benchmark"`
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) error {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordAnalysisRequest(op)
	metrics.RecordAnalysisLatency(op, ms)
	if err != nil {
		kind := ErrorKind(err)
		metrics.RecordAnalysisError(op, kind)
		s.log().Debug(ctx, "analysis failed",
			logger.String("op", op),
			logger.String("kind", kind),
			logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log().Debug(ctx, "analysis done", logger.String("op", op), logger.Float64("ms", ms))
	return nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Catalog describes the metrics that can be analysed.
func (s *Service) Catalog() CatalogView {
	return CatalogView{
		Categories: s.hierarchy.Categories(),
		Presets:    scoring.Presets(),
		Benchmark:  s.benchmark,
	}
}

// Aggregate groups the filtered skill records and summarizes each metric.
func (s *Service) Aggregate(ctx context.Context, q Query) (out []analysis.GroupAggregate, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpAggregate, start, err) }(time.Now())

	q, err = s.normalize(q, []model.Field{model.FieldLocation})
	if err != nil {
		return nil, err
	}
	out, err = s.aggregate(ctx, q, q.Filter)
	if err != nil {
		return nil, err
	}
	metrics.RecordGroupsProduced(OpAggregate, len(out))
	return out, nil
}

func (s *Service) aggregate(ctx context.Context, q Query, f model.Filter) ([]analysis.GroupAggregate, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	records, err := store.Skills(ctx, f)
	if err != nil {
		return nil, err
	}
	return analysis.AggregateMany(s.hierarchy, records, q.GroupBy, q.Metrics)
}

// Gaps compares every group with its benchmark group.
func (s *Service) Gaps(ctx context.Context, q Query) (out []analysis.GapResult, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpGaps, start, err) }(time.Now())

	q, err = s.normalize(q, []model.Field{model.FieldLocation})
	if err != nil {
		return nil, err
	}
	out, err = s.gaps(ctx, q)
	if err != nil {
		return nil, err
	}
	metrics.RecordGroupsProduced(OpGaps, len(out))
	return out, nil
}

func (s *Service) gaps(ctx context.Context, q Query) ([]analysis.GapResult, error) {
	aggs, err := s.aggregate(ctx, q, withBenchmark(q.Filter, q.Benchmark))
	if err != nil {
		return nil, err
	}

	opts := []analysis.CompareOption{
		analysis.WithMissingHook(func(a analysis.GroupAggregate) {
			metrics.RecordBenchmarkMissing()
			s.log().Debug(ctx, "group has no benchmark counterpart",
				logger.String("key", a.Key.String()),
				logger.String("metric", a.Metric))
		}),
	}
	if s.fallback != nil {
		opts = append(opts, analysis.WithFallback(*s.fallback))
	}
	results, err := analysis.Compare(aggs, q.Benchmark, s.scorer, opts...)
	if err != nil {
		return nil, err
	}

	// Widening kept benchmark-only rows out; drop groups the caller filtered.
	out := results[:0]
	for _, r := range results {
		if !q.Filter.Matches(r.Key) {
			continue
		}
		if r.BenchmarkFallback {
			metrics.RecordBenchmarkFallback()
		}
		out = append(out, r)
	}
	return out, nil
}

// Priorities ranks groups with the query's preset and assigns tiers.
// The weighted-gap preset ranks benchmark gaps; the risk presets rank the
// aggregates themselves.
func (s *Service) Priorities(ctx context.Context, q Query) (report PriorityReport, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpPriorities, start, err) }(time.Now())

	q, err = s.normalize(q, []model.Field{model.FieldLocation})
	if err != nil {
		return PriorityReport{}, err
	}
	return s.priorities(ctx, q)
}

// Bottlenecks ranks crews by low skill, dispersion and defects. Without an
// explicit grouping it groups by shift and team. When the filter selects a
// single non-benchmark site and no metric is given, it ranks that site's
// priority skill, the one with the largest weighted gap to the benchmark.
func (s *Service) Bottlenecks(ctx context.Context, q Query) (report PriorityReport, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpBottlenecks, start, err) }(time.Now())

	if q.Preset == "" {
		q.Preset = scoring.PresetBottleneck
	}
	if len(q.Metrics) == 0 && len(q.Filter.Locations) == 1 && q.Filter.Locations[0] != s.benchmark {
		top, err := s.prioritySkill(ctx, q.Filter.Locations[0])
		switch {
		case err == nil:
			q.Metrics = []string{top.Metric}
		case !errors.Is(err, ErrInvalidQuery):
			return PriorityReport{}, err
		}
	}
	q, err = s.normalize(q, []model.Field{model.FieldShift, model.FieldTeam})
	if err != nil {
		return PriorityReport{}, err
	}
	return s.priorities(ctx, q)
}

// prioritySkill returns the skill gap with the largest weighted gap to the
// benchmark at location.
func (s *Service) prioritySkill(ctx context.Context, location string) (analysis.GapResult, error) {
	results, err := s.gaps(ctx, Query{
		GroupBy:   []model.Field{model.FieldLocation},
		Metrics:   s.hierarchy.Skills(),
		Benchmark: model.GroupKey{Location: s.benchmark},
		Filter:    model.Filter{Locations: []string{location}},
	})
	if err != nil {
		return analysis.GapResult{}, err
	}
	top, ok := analysis.Top(results, model.GroupKey{Location: location})
	if !ok {
		return analysis.GapResult{}, fmt.Errorf("%w: no gaps for %q", ErrInvalidQuery, location)
	}
	return top, nil
}

func (s *Service) priorities(ctx context.Context, q Query) (PriorityReport, error) {
	if _, err := scoring.ParsePreset(string(q.Preset)); err != nil {
		return PriorityReport{}, err
	}

	var (
		results []analysis.GapResult
		err     error
	)
	if q.Preset == scoring.PresetWeightedGap {
		results, err = s.gaps(ctx, q)
	} else {
		var aggs []analysis.GroupAggregate
		aggs, err = s.aggregate(ctx, q, q.Filter)
		results = analysis.Candidates(aggs)
	}
	if err != nil {
		return PriorityReport{}, err
	}

	rows, err := analysis.Rank(results, q.Preset, *q.Quantiles, analysis.WithMaxScore(s.scorer.MaxScore()))
	if err != nil {
		return PriorityReport{}, err
	}

	report := PriorityReport{
		Preset:    q.Preset,
		Quantiles: *q.Quantiles,
		Tiers:     map[analysis.Tier]int{analysis.TierHigh: 0, analysis.TierMedium: 0, analysis.TierLow: 0},
		Total:     len(rows),
		Rows:      rows,
	}
	if q.Preset == scoring.PresetWeightedGap {
		report.Benchmark = q.Benchmark
	}
	if len(rows) > 0 {
		scores := make([]float64, len(rows))
		for i, r := range rows {
			scores[i] = r.Score
		}
		if report.Thresholds, err = analysis.ComputeThresholds(scores, *q.Quantiles); err != nil {
			return PriorityReport{}, err
		}
	}
	for _, r := range rows {
		report.Tiers[r.Tier]++
		metrics.RecordTierAssignment(string(r.Tier))
	}
	if q.Limit > 0 && len(report.Rows) > q.Limit {
		report.Rows = report.Rows[:q.Limit]
	}
	metrics.RecordGroupsProduced(OpPriorities, len(rows))
	return report, nil
}

// Distribution counts the filtered records at each level of one skill.
func (s *Service) Distribution(ctx context.Context, q DistributionQuery) (out analysis.ProficiencyDistribution, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpDistribution, start, err) }(time.Now())

	store, err := s.ready()
	if err != nil {
		return out, err
	}
	records, err := store.Skills(ctx, q.Filter)
	if err != nil {
		return out, err
	}
	return analysis.Distribution(s.hierarchy, records, q.Skill)
}

// ExecutiveSummary compares every site with the benchmark site in money.
func (s *Service) ExecutiveSummary(ctx context.Context, q SummaryQuery) (out kpi.ExecutiveSummary, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpSummary, start, err) }(time.Now())

	if q.Benchmark == "" {
		q.Benchmark = s.benchmark
	}
	store, err := s.ready()
	if err != nil {
		return out, err
	}
	records, err := store.Skills(ctx, withBenchmark(q.Filter, model.GroupKey{Location: q.Benchmark}))
	if err != nil {
		return out, err
	}
	return kpi.Executive(records, q.Benchmark, s.loss)
}

// Monitoring reports the daily health of one site.
func (s *Service) Monitoring(ctx context.Context, q MonitoringQuery) (out kpi.MonitoringReport, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpMonitoring, start, err) }(time.Now())

	if q.Location == "" {
		return out, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}
	store, err := s.ready()
	if err != nil {
		return out, err
	}
	if _, err := store.Location(ctx, q.Location); err != nil {
		return out, err
	}
	records, err := store.Production(ctx, q.Filter)
	if err != nil {
		return out, err
	}
	return kpi.Monitor(records, q.Location, s.targets, q.RecentDays)
}

// Trend fits a KPI against a skill variable, per employee or per day.
func (s *Service) Trend(ctx context.Context, q TrendQuery) (out kpi.Trend, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpTrend, start, err) }(time.Now())

	if q.Y == "" {
		q.Y = kpi.KPIEfficiency
	}
	store, err := s.ready()
	if err != nil {
		return out, err
	}

	switch q.Source {
	case "", TrendEmployees:
		if q.X == "" {
			q.X = kpi.VarOverallSkill
		}
		records, err := store.Skills(ctx, q.Filter)
		if err != nil {
			return out, err
		}
		return kpi.EmployeeTrend(s.hierarchy, records, q.X, q.Y)
	case TrendDaily:
		if q.X == "" {
			q.X = kpi.VarAvgPredictedSkill
		}
		records, err := store.Production(ctx, q.Filter)
		if err != nil {
			return out, err
		}
		return kpi.ProductionTrend(records, q.X, q.Y)
	default:
		return out, fmt.Errorf("%w: unknown trend source %q", ErrInvalidQuery, q.Source)
	}
}

// ShiftSummary compares shifts, or any grouping of daily records, on a KPI.
func (s *Service) ShiftSummary(ctx context.Context, q ShiftQuery) (out kpi.ShiftReport, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpShifts, start, err) }(time.Now())

	if len(q.GroupBy) == 0 {
		q.GroupBy = []model.Field{model.FieldShift}
	}
	if q.KPI == "" {
		q.KPI = kpi.KPIEfficiency
	}
	store, err := s.ready()
	if err != nil {
		return out, err
	}
	records, err := store.Production(ctx, q.Filter)
	if err != nil {
		return out, err
	}
	return kpi.ShiftSummary(records, q.GroupBy, q.KPI)
}

// Investment simulates the training plan of one site. Trainees are the
// site's employees at or below the low-skill level on the targeted skill.
func (s *Service) Investment(ctx context.Context, q InvestmentQuery) (out InvestmentPlan, err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpInvestment, start, err) }(time.Now())

	if q.Location == "" {
		return out, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}
	if q.Location == s.benchmark {
		return out, fmt.Errorf("%w: %q is the benchmark location", ErrInvalidQuery, q.Location)
	}
	store, err := s.ready()
	if err != nil {
		return out, err
	}
	if _, err := store.Location(ctx, q.Location); err != nil {
		return out, err
	}

	out.Location = q.Location
	out.Skill = q.Skill
	if q.Skill == "" {
		top, err := s.prioritySkill(ctx, q.Location)
		if err != nil {
			return out, err
		}
		out.Skill = top.Metric
		out.Gap = top.Gap
	} else {
		results, err := s.gaps(ctx, Query{
			GroupBy:   []model.Field{model.FieldLocation},
			Metrics:   []string{q.Skill},
			Benchmark: model.GroupKey{Location: s.benchmark},
			Filter:    model.Filter{Locations: []string{q.Location}},
		})
		if err != nil {
			return out, err
		}
		if len(results) > 0 {
			out.Gap = results[0].Gap
		}
	}

	dist, err := s.distributionAt(ctx, q.Location, out.Skill)
	if err != nil {
		return out, err
	}
	packages := q.Packages
	if len(packages) == 0 {
		packages = kpi.DefaultPackages()
	}
	out.Investment = kpi.Simulate(packages, s.loss.MonthlyProductionValue, dist.LowCount)
	return out, nil
}

func (s *Service) distributionAt(ctx context.Context, location, skill string) (analysis.ProficiencyDistribution, error) {
	store, err := s.ready()
	if err != nil {
		return analysis.ProficiencyDistribution{}, err
	}
	records, err := store.Skills(ctx, model.Filter{Locations: []string{location}})
	if err != nil {
		return analysis.ProficiencyDistribution{}, err
	}
	return analysis.Distribution(s.hierarchy, records, skill)
}

// ExportPriorities ranks q and writes the rows as a spreadsheet.
func (s *Service) ExportPriorities(ctx context.Context, w io.Writer, format export.Format, q Query) (err error) {
	defer func(start time.Time) { err = s.observe(ctx, OpExport, start, err) }(time.Now())

	q, err = s.normalize(q, []model.Field{model.FieldLocation})
	if err != nil {
		return err
	}
	report, err := s.priorities(ctx, q)
	if err != nil {
		return err
	}
	if err := export.WritePriorities(w, format, report.Rows, export.WithMaxRows(s.maxExportRows)); err != nil {
		return err
	}
	metrics.RecordExport(string(format))
	return nil
}
