// Package kpi derives the management views built on top of the gap core:
// loss and ROI per site, daily health monitoring, skill-to-KPI trends,
// shift comparisons and training-investment simulation.
package kpi

import (
	"fmt"
	"sort"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// NoPayback is reported as payback months when there is no loss to recover.
const NoPayback = 999.0

// Site priority thresholds on the 0..100 priority score.
const (
	sitePriorityHigh   = 70.0
	sitePriorityMedium = 50.0
	lossShare          = 0.6
	roiShare           = 0.4
)

// LossParams converts KPI gaps into money. Amounts are in millions of yen.
type LossParams struct {
	MonthlyProductionValue float64 `json:"monthly_production_value"`
	TrainingCostPerPerson  float64 `json:"training_cost_per_person"`
	DefectLossMultiplier   float64 `json:"defect_loss_multiplier"`
}

// DefaultLossParams assumes 1,000M monthly output per site, 0.5M training
// cost per person and defects costing 1.5x their share of output.
func DefaultLossParams() LossParams {
	return LossParams{MonthlyProductionValue: 1000, TrainingCostPerPerson: 0.5, DefectLossMultiplier: 1.5}
}

// SiteImpact is the loss and training case for one site.
type SiteImpact struct {
	Location      string        `json:"location"`
	Employees     int           `json:"employees"`
	SkillGap      float64       `json:"skill_gap"`
	EfficiencyGap float64       `json:"efficiency_gap_pct"`
	DefectGap     float64       `json:"defect_gap_pct"`
	MonthlyLoss   float64       `json:"monthly_loss"`
	AnnualLoss    float64       `json:"annual_loss"`
	TrainingCost  float64       `json:"training_cost"`
	ROI           float64       `json:"roi"`
	PaybackMonths float64       `json:"payback_months"`
	PriorityScore float64       `json:"priority_score"`
	Tier          analysis.Tier `json:"tier"`
}

// ExecutiveSummary aggregates site impacts against the benchmark site.
type ExecutiveSummary struct {
	Benchmark         string       `json:"benchmark"`
	Sites             []SiteImpact `json:"sites"`
	TotalAnnualLoss   float64      `json:"total_annual_loss"`
	TotalTrainingCost float64      `json:"total_training_cost"`
	AverageROI        float64      `json:"average_roi"`
	PaybackMonths     float64      `json:"payback_months"`
}

type siteTotals struct {
	n                          int
	skill, efficiency, defects float64
}

func (s siteTotals) means() (skill, eff, defect float64) {
	n := float64(s.n)
	return s.skill / n, s.efficiency / n, s.defects / n
}

// Executive compares every site with the benchmark site on overall skill,
// efficiency and defect rate and turns the gaps into loss, training cost,
// ROI and a priority score. Sites are ordered by priority score.
func Executive(records []model.SkillRecord, benchmark string, p LossParams) (ExecutiveSummary, error) {
	sum := ExecutiveSummary{Benchmark: benchmark, Sites: []SiteImpact{}}
	if len(records) == 0 {
		return sum, nil
	}

	totals := make(map[string]*siteTotals)
	for _, r := range records {
		overall, ok := r.Overall()
		if !ok {
			return ExecutiveSummary{}, fmt.Errorf("%w: employee %s", analysis.ErrMissingScore, r.EmployeeID)
		}
		t := totals[r.Location]
		if t == nil {
			t = &siteTotals{}
			totals[r.Location] = t
		}
		t.n++
		t.skill += overall
		t.efficiency += r.EfficiencyPct
		t.defects += r.DefectRatePct
	}
	bench, ok := totals[benchmark]
	if !ok {
		return ExecutiveSummary{}, fmt.Errorf("%w: %q", ErrUnknownLocation, benchmark)
	}
	bSkill, bEff, bDefect := bench.means()

	var maxLoss, maxROI float64
	for loc, t := range totals {
		if loc == benchmark {
			continue
		}
		skill, eff, defect := t.means()
		s := SiteImpact{
			Location:      loc,
			Employees:     t.n,
			SkillGap:      bSkill - skill,
			EfficiencyGap: bEff - eff,
			DefectGap:     defect - bDefect,
			TrainingCost:  float64(t.n) * p.TrainingCostPerPerson,
		}
		s.MonthlyLoss = p.MonthlyProductionValue*(s.EfficiencyGap/100) +
			p.MonthlyProductionValue*(s.DefectGap/100)*p.DefectLossMultiplier
		s.AnnualLoss = s.MonthlyLoss * 12
		if s.TrainingCost > 0 {
			s.ROI = s.AnnualLoss / s.TrainingCost
		}
		s.PaybackMonths = NoPayback
		if s.MonthlyLoss > 0 {
			s.PaybackMonths = s.TrainingCost / s.MonthlyLoss
		}
		maxLoss = max(maxLoss, s.AnnualLoss)
		maxROI = max(maxROI, s.ROI)

		sum.Sites = append(sum.Sites, s)
		sum.TotalAnnualLoss += s.AnnualLoss
		sum.TotalTrainingCost += s.TrainingCost
		sum.AverageROI += s.ROI
	}
	if len(sum.Sites) == 0 {
		return sum, nil
	}
	sum.AverageROI /= float64(len(sum.Sites))
	sum.PaybackMonths = NoPayback
	if sum.TotalAnnualLoss > 0 {
		sum.PaybackMonths = sum.TotalTrainingCost / (sum.TotalAnnualLoss / 12)
	}

	for i := range sum.Sites {
		s := &sum.Sites[i]
		var lossNorm, roiNorm float64
		if maxLoss > 0 {
			lossNorm = s.AnnualLoss / maxLoss
		}
		if maxROI > 0 {
			roiNorm = s.ROI / maxROI
		}
		s.PriorityScore = (lossNorm*lossShare + roiNorm*roiShare) * 100
		s.Tier = siteTier(s.PriorityScore)
	}
	sort.Slice(sum.Sites, func(i, j int) bool {
		if sum.Sites[i].PriorityScore != sum.Sites[j].PriorityScore {
			return sum.Sites[i].PriorityScore > sum.Sites[j].PriorityScore
		}
		return sum.Sites[i].Location < sum.Sites[j].Location
	})
	return sum, nil
}

func siteTier(score float64) analysis.Tier {
	switch {
	case score > sitePriorityHigh:
		return analysis.TierHigh
	case score > sitePriorityMedium:
		return analysis.TierMedium
	default:
		return analysis.TierLow
	}
}
