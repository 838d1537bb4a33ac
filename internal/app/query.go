package service

import (
	"fmt"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
)

// Query selects the records, grouping, benchmark and scoring of an
// aggregate, gap or priority request. Zero fields take service defaults.
type Query struct {
	GroupBy   []model.Field
	Metrics   []string
	Benchmark model.GroupKey
	Preset    scoring.Preset
	Quantiles *analysis.TierQuantiles
	Filter    model.Filter
	// Limit truncates ranked output after tiers are assigned; zero keeps all.
	Limit int
}

// DistributionQuery selects one skill's proficiency distribution.
type DistributionQuery struct {
	Skill  string
	Filter model.Filter
}

// SummaryQuery selects the executive summary.
type SummaryQuery struct {
	Benchmark string
	Filter    model.Filter
}

// MonitoringQuery selects the health view of one site.
type MonitoringQuery struct {
	Location   string
	RecentDays int
	Filter     model.Filter
}

// Trend sources.
const (
	TrendEmployees = "employees"
	TrendDaily     = "daily"
)

// TrendQuery selects a skill-to-KPI regression.
type TrendQuery struct {
	Source string
	X      string
	Y      kpi.KPI
	Filter model.Filter
}

// ShiftQuery selects a shift or crew comparison.
type ShiftQuery struct {
	GroupBy []model.Field
	KPI     kpi.KPI
	Filter  model.Filter
}

// InvestmentQuery selects the training plan of one site. An empty Skill
// targets the site's largest weighted gap.
type InvestmentQuery struct {
	Location string
	Skill    string
	Packages []kpi.Package
}

func (s *Service) normalize(q Query, defaultGroupBy []model.Field) (Query, error) {
	if len(q.GroupBy) == 0 {
		q.GroupBy = defaultGroupBy
	}
	if len(q.Metrics) == 0 {
		q.Metrics = s.hierarchy.CategoryNames()
	}
	if q.Benchmark.IsZero() {
		q.Benchmark = model.GroupKey{Location: s.benchmark}
	}
	if q.Preset == "" {
		q.Preset = scoring.PresetWeightedGap
	}
	if q.Quantiles == nil {
		qs := s.quantiles
		q.Quantiles = &qs
	}
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	return q, nil
}

// withBenchmark widens a location filter so benchmark groups stay in the
// record set.
func withBenchmark(f model.Filter, benchmark model.GroupKey) model.Filter {
	widen := func(values []string, v string) []string {
		if len(values) == 0 || v == "" {
			return values
		}
		out := append([]string{}, values...)
		return append(out, v)
	}
	f.Locations = widen(f.Locations, benchmark.Location)
	f.Teams = widen(f.Teams, benchmark.Team)
	f.Shifts = widen(f.Shifts, benchmark.Shift)
	f.Processes = widen(f.Processes, benchmark.Process)
	return f
}
