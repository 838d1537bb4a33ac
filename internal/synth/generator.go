package synth

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/google/uuid"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
)

// Generation constants.
const (
	evaluationWindowDays = 180
	laggingDropChance    = 0.4
	fallbackCellSkill    = 3.0

	employeeEfficiencyBase  = 60.0
	employeeEfficiencySlope = 8.0
	employeeEfficiencyNoise = 4.0
	employeeDefectBase      = 8.0
	employeeDefectSlope     = 1.2
	employeeDefectNoise     = 1.0
	employeeDefectMax       = 8.0

	cellEfficiencyBase  = 75.0
	cellEfficiencySlope = 4.0
	cellEfficiencyNoise = 3.0
	cellDefectBase      = 6.0
	cellDefectSlope     = 0.8
	cellDefectNoise     = 0.8
	cellDefectMax       = 6.0

	efficiencyMin = 75.0
	efficiencyMax = 98.0
	defectMin     = 0.5

	quantityMin   = 500
	quantityMax   = 3000
	quantityPivot = 3.5
	quantitySpan  = 5.0
)

// Result is a generated dataset and the batch it belongs to.
type Result struct {
	BatchID string
	Dataset repository.Dataset
}

// Generator produces datasets from a Config and a skill hierarchy.
type Generator struct {
	cfg Config
	h   *catalog.Hierarchy
	rng *rand.Rand
}

// New validates cfg and seeds the generator.
func New(cfg Config, h *catalog.Hierarchy) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: nil hierarchy", ErrInvalidConfig)
	}
	return &Generator{cfg: cfg, h: h, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Generate builds the skill records and then the daily production derived from them.
func (g *Generator) Generate(ctx context.Context) (Result, error) {
	batch := uuid.New().String()
	logger.Get().Info(ctx, "generating synthetic dataset",
		logger.String("batch", batch),
		logger.Int("employees", g.cfg.Employees),
		logger.Int("days", g.cfg.Days),
		logger.Any("seed", g.cfg.Seed))

	skills, err := g.skills(ctx)
	if err != nil {
		return Result{}, err
	}
	production, err := g.production(ctx, skills)
	if err != nil {
		return Result{}, err
	}

	logger.Get().Info(ctx, "generated synthetic dataset",
		logger.String("batch", batch),
		logger.Int("skills", len(skills)),
		logger.Int("production", len(production)))
	return Result{BatchID: batch, Dataset: repository.Dataset{Skills: skills, Production: production}}, nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// intn returns a value in [lo, hi).
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo)
}

func (g *Generator) skills(ctx context.Context) ([]model.SkillRecord, error) {
	locations := g.cfg.Locations()
	out := make([]model.SkillRecord, g.cfg.Employees)
	for i := range out {
		out[i] = model.SkillRecord{
			EmployeeID:     fmt.Sprintf("EMP_%03d", i+1),
			Location:       g.pick(locations),
			Process:        g.pick(g.cfg.Processes),
			Shift:          g.pick(g.cfg.Shifts),
			Team:           g.pick(g.cfg.Teams),
			EvaluationDate: g.cfg.End.AddDate(0, 0, -g.intn(1, evaluationWindowDays)),
			Scores:         make(map[string]int, len(g.h.Skills())),
		}
	}

	// Skill-major order, one column at a time.
	for _, skill := range g.h.Skills() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		category, _ := g.h.CategoryOf(skill)
		for i := range out {
			out[i].Scores[skill] = g.score(out[i], category, skill)
		}
	}

	for i := range out {
		overall, _ := out[i].Overall()
		overall = round(overall, 2)
		out[i].EfficiencyPct = round(clamp(employeeEfficiencyBase+overall*employeeEfficiencySlope+g.rng.NormFloat64()*employeeEfficiencyNoise, efficiencyMin, efficiencyMax), 1)
		out[i].DefectRatePct = round(clamp(employeeDefectBase-overall*employeeDefectSlope+g.rng.NormFloat64()*employeeDefectNoise, defectMin, employeeDefectMax), 1)
	}
	return out, nil
}

func (g *Generator) score(r model.SkillRecord, category, skill string) int {
	base := g.intn(2, 4)
	switch {
	case r.Location == g.cfg.Benchmark:
		base++
	case slices.Contains(g.cfg.Lagging, r.Location):
		if base > 2 && g.rng.Float64() < laggingDropChance {
			base--
		}
	}
	if f, ok := processFocus[r.Process]; ok {
		if slices.Contains(f.categories[:], category) {
			base += g.intn(0, 2)
		}
		if slices.Contains(f.skills[:], skill) {
			base++
		}
	}
	s := base + g.intn(-1, 2)
	return min(max(s, model.MinScore), model.MaxScore)
}

type cell struct {
	location, process, shift string
}

func (g *Generator) production(ctx context.Context, skills []model.SkillRecord) ([]model.DailyProductionRecord, error) {
	type profile struct {
		avg        float64
		categories map[string]float64
	}
	members := make(map[cell][]model.SkillRecord)
	for _, r := range skills {
		c := cell{r.Location, r.Process, r.Shift}
		members[c] = append(members[c], r)
	}
	profiles := make(map[cell]profile, len(members))
	for c, rs := range members {
		p := profile{avg: fallbackCellSkill, categories: make(map[string]float64)}
		var total, n float64
		for _, r := range rs {
			for _, s := range r.Scores {
				total += float64(s)
				n++
			}
		}
		if n > 0 {
			p.avg = total / n
		}
		for _, cat := range g.h.Categories() {
			var sum, cnt float64
			for _, r := range rs {
				for _, s := range cat.Skills {
					if v, ok := r.Scores[s]; ok {
						sum += float64(v)
						cnt++
					}
				}
			}
			if cnt > 0 {
				p.categories[cat.Name] = round(sum/cnt, 2)
			}
		}
		profiles[c] = p
	}

	start := g.cfg.End.AddDate(0, 0, -(g.cfg.Days - 1))
	out := make([]model.DailyProductionRecord, 0, g.cfg.Days*len(g.cfg.Locations())*len(g.cfg.Processes)*len(g.cfg.Shifts))
	for d := 0; d < g.cfg.Days; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := start.AddDate(0, 0, d)
		for _, loc := range g.cfg.Locations() {
			for _, process := range g.cfg.Processes {
				for si, shift := range g.cfg.Shifts {
					p, ok := profiles[cell{loc, process, shift}]
					if !ok {
						p = profile{avg: fallbackCellSkill}
					}
					eff := round(clamp(cellEfficiencyBase+p.avg*cellEfficiencySlope+g.rng.NormFloat64()*cellEfficiencyNoise, efficiencyMin, efficiencyMax), 1)
					defect := round(clamp(cellDefectBase-p.avg*cellDefectSlope+g.rng.NormFloat64()*cellDefectNoise, defectMin, cellDefectMax), 2)
					qty := float64(g.intn(quantityMin, quantityMax)) * (1 + (p.avg-quantityPivot)/quantitySpan)
					out = append(out, model.DailyProductionRecord{
						Date:              date,
						Location:          loc,
						Process:           process,
						Shift:             shift,
						Team:              crew(g.cfg.Teams, d, si),
						QuantityProduced:  int(math.Round(qty)),
						EfficiencyPct:     eff,
						DefectRatePct:     defect,
						YieldPct:          round(100-defect, 2),
						AvgPredictedSkill: round(p.avg, 2),
						CategoryAverages:  p.categories,
					})
				}
			}
		}
	}
	return out, nil
}

// crew rotates the teams through the shifts day by day, so with three
// teams and two shifts one team rests each day.
func crew(teams []string, day, shift int) string {
	return teams[(day+shift)%len(teams)]
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
