package kpi

import (
	"fmt"
	"sort"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/stats"
)

// Status is the health band of a site.
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
	StatusAlert   Status = "alert"
)

// Health bands and score weights.
const (
	alertBelow       = 70.0
	warningBelow     = 80.0
	efficiencyWeight = 40.0
	skillWeight      = 30.0
	defectWeight     = 30.0
	defectCeiling    = 10.0
	defectSpan       = 7.0

	// DefaultRecentDays is the window compared against the full period.
	DefaultRecentDays = 7
)

// HealthTargets are the levels a healthy site reaches.
type HealthTargets struct {
	EfficiencyPct float64 `json:"efficiency_pct"`
	Skill         float64 `json:"skill"`
	DefectRatePct float64 `json:"defect_rate_pct"`
}

// DefaultHealthTargets: 85% efficiency, 3.5 average skill, 3% defects.
func DefaultHealthTargets() HealthTargets {
	return HealthTargets{EfficiencyPct: 85, Skill: 3.5, DefectRatePct: 3.0}
}

// HealthScore combines efficiency, skill and defect rate into 0..100.
func HealthScore(efficiency, skill, defect float64, t HealthTargets) float64 {
	h := efficiency/t.EfficiencyPct*efficiencyWeight +
		skill/t.Skill*skillWeight +
		(defectCeiling-defect)/defectSpan*defectWeight
	return min(max(h, 0), 100)
}

// StatusOf bands a health score.
func StatusOf(health float64) Status {
	switch {
	case health < alertBelow:
		return StatusAlert
	case health < warningBelow:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

// DailyPoint is a site's mean KPIs for one date.
type DailyPoint struct {
	Date              time.Time `json:"date"`
	EfficiencyPct     float64   `json:"efficiency_pct"`
	DefectRatePct     float64   `json:"defect_rate_pct"`
	YieldPct          float64   `json:"yield_pct"`
	AvgPredictedSkill float64   `json:"avg_predicted_skill"`
	QuantityProduced  float64   `json:"quantity_produced"`
	Health            float64   `json:"health"`
}

// Drift compares the recent window with the full period.
type Drift struct {
	Metric string  `json:"metric"`
	Recent float64 `json:"recent"`
	Full   float64 `json:"full"`
	Delta  float64 `json:"delta"`
}

// MonitoringReport is the health view of one site.
type MonitoringReport struct {
	Location string        `json:"location"`
	Targets  HealthTargets `json:"targets"`
	Series   []DailyPoint  `json:"series"`
	Latest   DailyPoint    `json:"latest"`
	Status   Status        `json:"status"`
	Drifts   []Drift       `json:"drifts"`
}

type dayTotals struct {
	n                                   int
	eff, defect, yield, skill, quantity float64
}

// Monitor averages the site's production records per date, scores each
// day's health and compares the last recentDays days with the whole series.
func Monitor(records []model.DailyProductionRecord, location string, t HealthTargets, recentDays int) (MonitoringReport, error) {
	if recentDays <= 0 {
		recentDays = DefaultRecentDays
	}
	days := make(map[time.Time]*dayTotals)
	for _, r := range records {
		if r.Location != location {
			continue
		}
		y, m, dd := r.Date.Date()
		d := time.Date(y, m, dd, 0, 0, 0, 0, r.Date.Location())
		dt := days[d]
		if dt == nil {
			dt = &dayTotals{}
			days[d] = dt
		}
		dt.n++
		dt.eff += r.EfficiencyPct
		dt.defect += r.DefectRatePct
		dt.yield += KPIYield.OfProduction(r)
		dt.skill += r.AvgPredictedSkill
		dt.quantity += float64(r.QuantityProduced)
	}
	if len(days) == 0 {
		return MonitoringReport{}, fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}

	series := make([]DailyPoint, 0, len(days))
	for d, dt := range days {
		n := float64(dt.n)
		p := DailyPoint{
			Date:              d,
			EfficiencyPct:     dt.eff / n,
			DefectRatePct:     dt.defect / n,
			YieldPct:          dt.yield / n,
			AvgPredictedSkill: dt.skill / n,
			QuantityProduced:  dt.quantity / n,
		}
		p.Health = HealthScore(p.EfficiencyPct, p.AvgPredictedSkill, p.DefectRatePct, t)
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	latest := series[len(series)-1]
	recent := series[max(0, len(series)-recentDays):]
	return MonitoringReport{
		Location: location,
		Targets:  t,
		Series:   series,
		Latest:   latest,
		Status:   StatusOf(latest.Health),
		Drifts: []Drift{
			drift("efficiency_pct", recent, series, func(p DailyPoint) float64 { return p.EfficiencyPct }),
			drift("avg_predicted_skill", recent, series, func(p DailyPoint) float64 { return p.AvgPredictedSkill }),
			drift("defect_rate_pct", recent, series, func(p DailyPoint) float64 { return p.DefectRatePct }),
		},
	}, nil
}

func drift(metric string, recent, full []DailyPoint, get func(DailyPoint) float64) Drift {
	pick := func(ps []DailyPoint) []float64 {
		out := make([]float64, len(ps))
		for i, p := range ps {
			out[i] = get(p)
		}
		return out
	}
	r, f := stats.Mean(pick(recent)), stats.Mean(pick(full))
	return Drift{Metric: metric, Recent: r, Full: f, Delta: r - f}
}
