package model

import (
	"fmt"
	"time"
)

// Skill score bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// SkillRecord is one employee's skill evaluation.
type SkillRecord struct {
	EmployeeID     string         // employee identifier
	Location       string         // site the employee belongs to
	Team           string         // crew, e.g. "A"
	Shift          string         // shift pattern, e.g. "Day"
	Process        string         // production process
	Scores         map[string]int // skill name -> proficiency 1..5
	EvaluationDate time.Time

	// Per-employee KPI columns. Zero when the source does not carry them.
	EfficiencyPct float64
	DefectRatePct float64
}

// Key returns the full categorical tuple of the record.
func (r SkillRecord) Key() GroupKey {
	return GroupKey{Location: r.Location, Team: r.Team, Shift: r.Shift, Process: r.Process}
}

// Validate checks every score lies within [MinScore, MaxScore].
func (r SkillRecord) Validate() error {
	for skill, s := range r.Scores {
		if s < MinScore || s > MaxScore {
			return fmt.Errorf("%w: employee %s skill %q = %d", ErrScoreOutOfRange, r.EmployeeID, skill, s)
		}
	}
	return nil
}

// Overall returns the mean of all scores; ok is false when the record has none.
func (r SkillRecord) Overall() (float64, bool) {
	if len(r.Scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range r.Scores {
		sum += s
	}
	return float64(sum) / float64(len(r.Scores)), true
}

// DailyProductionRecord is one production cell's output for a day.
type DailyProductionRecord struct {
	Date              time.Time
	Location          string
	Process           string
	Shift             string
	Team              string
	QuantityProduced  int
	EfficiencyPct     float64
	DefectRatePct     float64
	YieldPct          float64
	AvgPredictedSkill float64

	// CategoryAverages holds the mean skill per category for the crew on duty.
	CategoryAverages map[string]float64
}

// Key returns the categorical tuple of the record.
func (r DailyProductionRecord) Key() GroupKey {
	return GroupKey{Location: r.Location, Team: r.Team, Shift: r.Shift, Process: r.Process}
}
