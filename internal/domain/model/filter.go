package model

import (
	"slices"
	"time"
)

// Filter selects records by categorical values and an inclusive date range.
// Empty lists and zero times match everything.
type Filter struct {
	Locations []string
	Teams     []string
	Shifts    []string
	Processes []string
	From      time.Time
	To        time.Time
}

// Matches reports whether k satisfies every categorical constraint.
func (f Filter) Matches(k GroupKey) bool {
	return allowed(f.Locations, k.Location) &&
		allowed(f.Teams, k.Team) &&
		allowed(f.Shifts, k.Shift) &&
		allowed(f.Processes, k.Process)
}

func (f Filter) inRange(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}

func allowed(values []string, v string) bool {
	return len(values) == 0 || slices.Contains(values, v)
}

// MatchSkill reports whether r passes the filter.
func (f Filter) MatchSkill(r SkillRecord) bool {
	return f.Matches(r.Key()) && (r.EvaluationDate.IsZero() || f.inRange(r.EvaluationDate))
}

// MatchProduction reports whether r passes the filter.
func (f Filter) MatchProduction(r DailyProductionRecord) bool {
	return f.Matches(r.Key()) && f.inRange(r.Date)
}

// FilterSkills returns the records that pass f. The result is never nil.
func FilterSkills(records []SkillRecord, f Filter) []SkillRecord {
	out := make([]SkillRecord, 0, len(records))
	for _, r := range records {
		if f.MatchSkill(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterProduction returns the records that pass f. The result is never nil.
func FilterProduction(records []DailyProductionRecord, f Filter) []DailyProductionRecord {
	out := make([]DailyProductionRecord, 0, len(records))
	for _, r := range records {
		if f.MatchProduction(r) {
			out = append(out, r)
		}
	}
	return out
}
