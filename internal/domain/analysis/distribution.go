package analysis

import (
	"fmt"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// LowSkillLevel is the highest proficiency counted as low skill.
const LowSkillLevel = 2

// LevelCount is the number of records at one proficiency level.
type LevelCount struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

// ProficiencyDistribution counts records per level of one skill.
type ProficiencyDistribution struct {
	Skill    string       `json:"skill"`
	Levels   []LevelCount `json:"levels"`
	Total    int          `json:"total"`
	LowCount int          `json:"low_count"`
	LowRatio float64      `json:"low_ratio"`
}

// Distribution counts how many records sit at each level 1..5 of skill and
// how many are at or below LowSkillLevel. Categories are rejected since
// their per-record values are not levels.
func Distribution(h *catalog.Hierarchy, records []model.SkillRecord, skill string) (ProficiencyDistribution, error) {
	m, err := h.Resolve(skill)
	if err != nil {
		return ProficiencyDistribution{}, fmt.Errorf("%w: %w", ErrInvalidMetric, err)
	}
	if m.Kind != catalog.KindSkill {
		return ProficiencyDistribution{}, fmt.Errorf("%w: %q is a category", ErrInvalidMetric, skill)
	}

	d := ProficiencyDistribution{Skill: skill, Levels: make([]LevelCount, 0, model.MaxScore)}
	counts := make([]int, model.MaxScore+1)
	for _, r := range records {
		s, ok := r.Scores[skill]
		if !ok {
			return ProficiencyDistribution{}, fmt.Errorf("%w: %q on record %s", ErrMissingScore, skill, r.EmployeeID)
		}
		if s < model.MinScore || s > model.MaxScore {
			return ProficiencyDistribution{}, fmt.Errorf("%w: employee %s", model.ErrScoreOutOfRange, r.EmployeeID)
		}
		counts[s]++
		d.Total++
		if s <= LowSkillLevel {
			d.LowCount++
		}
	}
	for lvl := model.MinScore; lvl <= model.MaxScore; lvl++ {
		d.Levels = append(d.Levels, LevelCount{Level: lvl, Count: counts[lvl]})
	}
	if d.Total > 0 {
		d.LowRatio = float64(d.LowCount) / float64(d.Total)
	}
	return d, nil
}
