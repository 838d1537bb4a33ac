package kpi

import (
	"fmt"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/stats"
)

// Skill-side trend variables besides category names.
const (
	VarOverallSkill      = "overall_skill"
	VarAvgPredictedSkill = "avg_predicted_skill"
)

// Insight labels the direction of a skill/KPI relationship.
type Insight string

const (
	InsightPositive Insight = "positive"
	InsightNegative Insight = "negative"
	InsightWeak     Insight = "weak"
)

// Insight cut-offs on r.
const (
	positiveAbove = 0.5
	negativeBelow = -0.3
)

// InsightOf labels r > 0.5 positive, r < -0.3 negative and anything else weak.
func InsightOf(r float64) Insight {
	switch {
	case r > positiveAbove:
		return InsightPositive
	case r < negativeBelow:
		return InsightNegative
	default:
		return InsightWeak
	}
}

// Point is one observation of a trend.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trend is a fitted skill-to-KPI relationship.
type Trend struct {
	X       string    `json:"x"`
	Y       KPI       `json:"y"`
	Fit     stats.Fit `json:"fit"`
	Insight Insight   `json:"insight"`
	Points  []Point   `json:"points"`
}

// EmployeeTrend regresses an employee KPI on a skill-side variable:
// overall_skill or a category name (the record's mean over that category).
func EmployeeTrend(h *catalog.Hierarchy, records []model.SkillRecord, x string, y KPI) (Trend, error) {
	read, err := employeeVariable(h, x)
	if err != nil {
		return Trend{}, err
	}
	pts := make([]Point, 0, len(records))
	for _, r := range records {
		v, ok := read(r)
		if !ok {
			continue
		}
		pts = append(pts, Point{X: v, Y: y.OfEmployee(r)})
	}
	return fit(x, y, pts)
}

func employeeVariable(h *catalog.Hierarchy, x string) (func(model.SkillRecord) (float64, bool), error) {
	if x == VarOverallSkill || x == "" {
		return model.SkillRecord.Overall, nil
	}
	m, err := h.Resolve(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownVariable, err)
	}
	return func(r model.SkillRecord) (float64, bool) { return m.Value(r.Scores) }, nil
}

// ProductionTrend regresses a daily KPI on avg_predicted_skill or on a
// category average carried by the daily records.
func ProductionTrend(records []model.DailyProductionRecord, x string, y KPI) (Trend, error) {
	if x == "" {
		x = VarAvgPredictedSkill
	}
	pts := make([]Point, 0, len(records))
	for _, r := range records {
		var v float64
		if x == VarAvgPredictedSkill {
			v = r.AvgPredictedSkill
		} else {
			cv, ok := r.CategoryAverages[x]
			if !ok {
				continue
			}
			v = cv
		}
		pts = append(pts, Point{X: v, Y: y.OfProduction(r)})
	}
	if x != VarAvgPredictedSkill && len(pts) == 0 && len(records) > 0 {
		return Trend{}, fmt.Errorf("%w: %q", ErrUnknownVariable, x)
	}
	return fit(x, y, pts)
}

func fit(x string, y KPI, pts []Point) (Trend, error) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	f, err := stats.LinearFit(xs, ys)
	if err != nil {
		return Trend{}, err
	}
	return Trend{X: x, Y: y, Fit: f, Insight: InsightOf(f.R), Points: pts}, nil
}
