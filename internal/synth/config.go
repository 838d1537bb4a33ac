// Package synth generates a deterministic steel-plant workforce dataset.
package synth

import (
	"fmt"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
)

// Processes of the steel plant, upstream to downstream.
const (
	Ironmaking       = "Ironmaking"
	Steelmaking      = "Steelmaking"
	Rolling          = "Rolling"
	SurfaceTreatment = "Surface Treatment"
	Shipping         = "Shipping"
)

// Config holds the generator settings.
type Config struct {
	Seed      int64     // random seed; equal seeds give equal datasets
	Employees int       // number of skill records
	Days      int       // number of production days ending at End
	End       time.Time // last production day
	Benchmark string    // location whose staff score higher
	Lagging   []string  // locations whose staff sometimes score lower
	Others    []string  // remaining locations
	Processes []string
	Shifts    []string
	Teams     []string
}

// DefaultConfig is 250 employees over four sites and 31 production days.
func DefaultConfig() Config {
	return Config{
		Seed:      42,
		Employees: 250,
		Days:      31,
		End:       time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Benchmark: "JP",
		Lagging:   []string{"IN", "BR"},
		Others:    []string{"VN"},
		Processes: []string{Ironmaking, Steelmaking, Rolling, SurfaceTreatment, Shipping},
		Shifts:    []string{"Day", "Night"},
		Teams:     []string{"A", "B", "C"},
	}
}

// Locations lists the benchmark first, then the lagging and other sites.
func (c Config) Locations() []string {
	out := []string{c.Benchmark}
	out = append(out, c.Lagging...)
	return append(out, c.Others...)
}

// Validate checks the config can produce a dataset.
func (c Config) Validate() error {
	switch {
	case c.Employees < 0:
		return fmt.Errorf("%w: employees %d", ErrInvalidConfig, c.Employees)
	case c.Days < 0:
		return fmt.Errorf("%w: days %d", ErrInvalidConfig, c.Days)
	case c.Benchmark == "":
		return fmt.Errorf("%w: benchmark location is empty", ErrInvalidConfig)
	case len(c.Processes) == 0 || len(c.Shifts) == 0 || len(c.Teams) == 0:
		return fmt.Errorf("%w: processes, shifts and teams must not be empty", ErrInvalidConfig)
	case c.Days > 0 && c.End.IsZero():
		return fmt.Errorf("%w: end date is required", ErrInvalidConfig)
	}
	return nil
}

// focus is the pair of categories a process relies on and its two signature skills.
type focus struct {
	categories [2]string
	skills     [2]string
}

var processFocus = map[string]focus{
	Ironmaking:       {[2]string{catalog.EquipmentOperation, catalog.SafetyEnvironment}, [2]string{"Blast Furnace Op", "Hazard Prediction"}},
	Steelmaking:      {[2]string{catalog.EquipmentOperation, catalog.QualityControl}, [2]string{"Converter Op", "Composition Analysis"}},
	Rolling:          {[2]string{catalog.EquipmentOperation, catalog.ProcessManagement}, [2]string{"Rolling Mill Op", "Process Monitoring"}},
	SurfaceTreatment: {[2]string{catalog.QualityControl, catalog.EquipmentOperation}, [2]string{"Plating Equipment Op", "Surface Inspection"}},
	Shipping:         {[2]string{catalog.QualityControl, catalog.ProcessManagement}, [2]string{"Quality Recording", "Inventory Management"}},
}
