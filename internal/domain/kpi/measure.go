package kpi

import (
	"fmt"
	"strings"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// KPI names a production outcome.
type KPI string

// Supported outcomes.
const (
	KPIEfficiency KPI = "efficiency_pct"
	KPIDefectRate KPI = "defect_rate_pct"
	KPIYield      KPI = "yield_pct"
)

// ParseKPI resolves a KPI name; the short forms "efficiency", "defect_rate"
// and "yield" are accepted too.
func ParseKPI(s string) (KPI, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.TrimSuffix(k, "_pct")
	switch k {
	case "efficiency":
		return KPIEfficiency, nil
	case "defect_rate", "defect":
		return KPIDefectRate, nil
	case "yield":
		return KPIYield, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKPI, s)
	}
}

// OfProduction reads k from a daily record. A missing yield is derived as
// 100 - defect rate.
func (k KPI) OfProduction(r model.DailyProductionRecord) float64 {
	switch k {
	case KPIEfficiency:
		return r.EfficiencyPct
	case KPIDefectRate:
		return r.DefectRatePct
	default:
		if r.YieldPct == 0 {
			return 100 - r.DefectRatePct
		}
		return r.YieldPct
	}
}

// OfEmployee reads k from an employee's KPI columns; yield is 100 - defect rate.
func (k KPI) OfEmployee(r model.SkillRecord) float64 {
	switch k {
	case KPIEfficiency:
		return r.EfficiencyPct
	case KPIDefectRate:
		return r.DefectRatePct
	default:
		return 100 - r.DefectRatePct
	}
}
