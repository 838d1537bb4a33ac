package service_test

import (
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func testHierarchy() *catalog.Hierarchy {
	h, err := catalog.New([]catalog.Category{
		{Name: "Operation", Skills: []string{"Furnace", "Crane"}},
		{Name: "Quality", Skills: []string{"Inspection"}},
	})
	if err != nil {
		panic(err)
	}
	return h
}

func employee(id, loc, team string, furnace, crane, inspection int, eff, defect float64) model.SkillRecord {
	return model.SkillRecord{
		EmployeeID:    id,
		Location:      loc,
		Team:          team,
		Shift:         "Day",
		Process:       "Rolling",
		Scores:        map[string]int{"Furnace": furnace, "Crane": crane, "Inspection": inspection},
		EfficiencyPct: eff,
		DefectRatePct: defect,
	}
}

var day0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func daily(day int, loc, shift string, eff, defect, skill float64) model.DailyProductionRecord {
	return model.DailyProductionRecord{
		Date:              day0.AddDate(0, 0, day),
		Location:          loc,
		Process:           "Rolling",
		Shift:             shift,
		Team:              "A",
		QuantityProduced:  1000,
		EfficiencyPct:     eff,
		DefectRatePct:     defect,
		YieldPct:          100 - defect,
		AvgPredictedSkill: skill,
		CategoryAverages:  map[string]float64{"Operation": skill},
	}
}

// testDataset has JP as the benchmark with IN and BR behind it.
//
//	Operation means: JP 4.5, IN 2.25, BR 3
//	Quality means:   JP 4,   IN 3,    BR 2
func testDataset() repository.Dataset {
	return repository.Dataset{
		Skills: []model.SkillRecord{
			employee("E1", "JP", "A", 5, 5, 4, 95, 1),
			employee("E2", "JP", "A", 4, 4, 4, 91, 2),
			employee("E3", "IN", "A", 2, 2, 3, 80, 5),
			employee("E4", "IN", "A", 2, 3, 3, 82, 4),
			employee("E5", "BR", "B", 3, 3, 2, 85, 3),
		},
		Production: []model.DailyProductionRecord{
			daily(0, "JP", "Day", 94, 1.0, 4.4),
			daily(0, "JP", "Night", 92, 1.5, 4.2),
			daily(1, "JP", "Day", 95, 0.9, 4.5),
			daily(1, "JP", "Night", 91, 1.6, 4.1),
			daily(0, "IN", "Day", 82, 4.0, 2.6),
			daily(0, "IN", "Night", 79, 4.8, 2.2),
			daily(1, "IN", "Day", 83, 3.9, 2.7),
			daily(1, "IN", "Night", 78, 5.0, 2.1),
		},
	}
}
