// Package analysis implements the gap-scoring core: per-group skill
// statistics, gaps against a benchmark group and quantile-tiered ranking.
// Every function is pure; inputs are never modified.
package analysis

import (
	"fmt"
	"sort"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/stats"
)

// GroupAggregate summarizes one metric over one group of records.
type GroupAggregate struct {
	Key    model.GroupKey `json:"key"`
	Metric string         `json:"metric"`
	Mean   float64        `json:"mean"`
	Std    float64        `json:"std"`
	Count  int            `json:"count"`

	// Mean KPI columns of the contributing records.
	EfficiencyPct float64 `json:"efficiency_pct"`
	DefectRatePct float64 `json:"defect_rate_pct"`
}

type bucket struct {
	values     []float64
	efficiency float64
	defect     float64
}

// Aggregate groups records by the given fields and summarizes metric, a
// skill or category name resolved through h. A category's value for one
// record is the mean of that record's constituent skills, taken before
// grouping. One aggregate is produced per combination actually present,
// ordered by key. An empty record set yields an empty, non-nil result.
func Aggregate(h *catalog.Hierarchy, records []model.SkillRecord, groupBy []model.Field, metric string) ([]GroupAggregate, error) {
	m, err := h.Resolve(metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetric, err)
	}
	if err := validateFields(groupBy); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []GroupAggregate{}, nil
	}

	buckets := make(map[model.GroupKey]*bucket)
	for _, r := range records {
		key := r.Key().Project(groupBy)
		for _, f := range groupBy {
			if key.Get(f) == "" {
				return nil, fmt.Errorf("%w: %s is unset on record %s", ErrInvalidGroupField, f, r.EmployeeID)
			}
		}
		v, ok := m.Value(r.Scores)
		if !ok {
			return nil, fmt.Errorf("%w: %q on record %s", ErrMissingScore, metric, r.EmployeeID)
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.values = append(b.values, v)
		b.efficiency += r.EfficiencyPct
		b.defect += r.DefectRatePct
	}

	out := make([]GroupAggregate, 0, len(buckets))
	for key, b := range buckets {
		s := stats.Summarize(b.values)
		n := float64(s.Count)
		out = append(out, GroupAggregate{
			Key:           key,
			Metric:        metric,
			Mean:          s.Mean,
			Std:           s.Std,
			Count:         s.Count,
			EfficiencyPct: b.efficiency / n,
			DefectRatePct: b.defect / n,
		})
	}
	sortAggregates(out)
	return out, nil
}

// AggregateMany runs Aggregate for each distinct metric and concatenates
// the results, ordered by key then first-seen metric order.
func AggregateMany(h *catalog.Hierarchy, records []model.SkillRecord, groupBy []model.Field, metrics []string) ([]GroupAggregate, error) {
	order := make(map[string]int, len(metrics))
	out := make([]GroupAggregate, 0)
	for _, metric := range metrics {
		if _, dup := order[metric]; dup {
			continue
		}
		order[metric] = len(order)
		aggs, err := Aggregate(h, records, groupBy, metric)
		if err != nil {
			return nil, err
		}
		out = append(out, aggs...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key.Less(out[j].Key)
		}
		return order[out[i].Metric] < order[out[j].Metric]
	})
	return out, nil
}

func validateFields(groupBy []model.Field) error {
	for _, f := range groupBy {
		if _, err := model.ParseField(string(f)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidGroupField, err)
		}
	}
	return nil
}

func sortAggregates(aggs []GroupAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Key != aggs[j].Key {
			return aggs[i].Key.Less(aggs[j].Key)
		}
		return aggs[i].Metric < aggs[j].Metric
	})
}
