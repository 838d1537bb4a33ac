package kpi

import (
	"fmt"
	"sort"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/stats"
)

// ShiftRow summarizes one KPI for one group of daily records.
type ShiftRow struct {
	Key model.GroupKey `json:"key"`
	stats.Box
}

// ShiftReport compares groups, typically shifts or crews, on one KPI.
type ShiftReport struct {
	KPI    KPI        `json:"kpi"`
	Rows   []ShiftRow `json:"rows"`
	Best   string     `json:"best,omitempty"`
	Worst  string     `json:"worst,omitempty"`
	Spread float64    `json:"spread"`
}

// ShiftSummary groups daily records and describes k per group. Best and
// Worst follow the KPI's direction: a lower defect rate is better.
func ShiftSummary(records []model.DailyProductionRecord, groupBy []model.Field, k KPI) (ShiftReport, error) {
	for _, f := range groupBy {
		if _, err := model.ParseField(string(f)); err != nil {
			return ShiftReport{}, fmt.Errorf("%w: %w", analysis.ErrInvalidGroupField, err)
		}
	}
	rep := ShiftReport{KPI: k, Rows: []ShiftRow{}}
	values := make(map[model.GroupKey][]float64)
	for _, r := range records {
		key := r.Key().Project(groupBy)
		values[key] = append(values[key], k.OfProduction(r))
	}
	for key, vs := range values {
		box, err := stats.Describe(vs)
		if err != nil {
			return ShiftReport{}, err
		}
		rep.Rows = append(rep.Rows, ShiftRow{Key: key, Box: box})
	}
	sort.Slice(rep.Rows, func(i, j int) bool { return rep.Rows[i].Key.Less(rep.Rows[j].Key) })
	if len(rep.Rows) == 0 {
		return rep, nil
	}

	best, worst := rep.Rows[0], rep.Rows[0]
	for _, row := range rep.Rows[1:] {
		if better(k, row.Mean, best.Mean) {
			best = row
		}
		if better(k, worst.Mean, row.Mean) {
			worst = row
		}
	}
	rep.Best, rep.Worst = best.Key.String(), worst.Key.String()
	rep.Spread = best.Mean - worst.Mean
	if k == KPIDefectRate {
		rep.Spread = -rep.Spread
	}
	return rep, nil
}

func better(k KPI, a, b float64) bool {
	if k == KPIDefectRate {
		return a < b
	}
	return a > b
}
