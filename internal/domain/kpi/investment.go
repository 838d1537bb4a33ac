package kpi

// Package is one training measure of an action plan.
type Package struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Cost              float64 `json:"cost"`                // millions of yen
	EfficiencyGainPct float64 `json:"efficiency_gain_pct"` // percentage points
}

// DefaultPackages is the four-measure plan: expert dispatch, online
// programme, mentoring and shift rotation.
func DefaultPackages() []Package {
	return []Package{
		{Name: "immediate", Description: "Short-term dispatch of benchmark-site engineers", Cost: 3.0, EfficiencyGainPct: 5},
		{Name: "mid_term", Description: "Online training programme for low-skill staff", Cost: 5.0, EfficiencyGainPct: 8},
		{Name: "structural", Description: "Veteran and junior pairing", Cost: 1.0},
		{Name: "risk", Description: "Rotation of low-skill staff across shifts", Cost: 0.5},
	}
}

// rampRate is the share of the full monthly benefit gained per month.
const rampRate = 0.3

// Investment is the payback case for a set of packages.
type Investment struct {
	Packages          []Package `json:"packages"`
	TotalCost         float64   `json:"total_cost"`
	EfficiencyGainPct float64   `json:"efficiency_gain_pct"`
	MonthlyBenefit    float64   `json:"monthly_benefit"`
	AnnualBenefit     float64   `json:"annual_benefit"`
	PaybackMonths     float64   `json:"payback_months"`
	ROI               float64   `json:"roi"`
	// Ramp is the benefit reached in months 1..12 as measures take hold.
	Ramp []float64 `json:"ramp"`
	// Trainees is the number of low-skill staff the plan targets.
	Trainees int `json:"trainees"`
}

// Simulate totals the plan and converts the efficiency gain into monthly
// benefit on monthlyProductionValue.
func Simulate(packages []Package, monthlyProductionValue float64, trainees int) Investment {
	inv := Investment{Packages: packages, Trainees: trainees, PaybackMonths: NoPayback, Ramp: make([]float64, 12)}
	for _, p := range packages {
		inv.TotalCost += p.Cost
		inv.EfficiencyGainPct += p.EfficiencyGainPct
	}
	inv.MonthlyBenefit = monthlyProductionValue * inv.EfficiencyGainPct / 100
	inv.AnnualBenefit = inv.MonthlyBenefit * 12
	if inv.MonthlyBenefit > 0 {
		inv.PaybackMonths = inv.TotalCost / inv.MonthlyBenefit
	}
	if inv.TotalCost > 0 {
		inv.ROI = inv.AnnualBenefit / inv.TotalCost
	}
	for i := range inv.Ramp {
		inv.Ramp[i] = inv.MonthlyBenefit * min(float64(i+1)*rampRate, 1)
	}
	return inv
}
