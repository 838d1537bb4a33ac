package catalog

// Category names of the steel-plant catalog.
const (
	EquipmentOperation   = "Equipment Operation"
	QualityControl       = "Quality Control"
	EquipmentMaintenance = "Equipment Maintenance"
	ProcessManagement    = "Process Management"
	SafetyEnvironment    = "Safety & Environment"
)

// SteelCategories is the five-by-five hierarchy used by the dummy data set.
func SteelCategories() []Category {
	return []Category{
		{
			Name:        EquipmentOperation,
			Description: "Operating and controlling production equipment",
			Skills: []string{
				"Blast Furnace Op", "Converter Op", "Rolling Mill Op",
				"Plating Equipment Op", "Conveyor Equipment Op",
			},
		},
		{
			Name:        QualityControl,
			Description: "Inspecting and managing product quality",
			Skills: []string{
				"Composition Analysis", "Dimensional Measurement", "Surface Inspection",
				"Non-destructive Testing", "Quality Recording",
			},
		},
		{
			Name:        EquipmentMaintenance,
			Description: "Inspecting, maintaining and repairing equipment",
			Skills: []string{
				"Daily Inspection", "Preventive Maintenance", "Failure Response",
				"Equipment Diagnosis", "Parts Replacement",
			},
		},
		{
			Name:        ProcessManagement,
			Description: "Production planning and progress control",
			Skills: []string{
				"Production Planning", "Process Monitoring", "Inventory Management",
				"Trouble Response", "Improvement Activities",
			},
		},
		{
			Name:        SafetyEnvironment,
			Description: "Safety and environmental management",
			Skills: []string{
				"Hazard Prediction", "Procedure Compliance", "PPE Usage",
				"Environmental Measurement", "Abnormal Situation Response",
			},
		},
	}
}

// Default returns the steel-plant hierarchy.
func Default() *Hierarchy {
	h, err := New(SteelCategories())
	if err != nil {
		panic(err) // static table
	}
	return h
}

// DefaultImpactWeights weights gaps by how strongly each category drives
// output. Lookups fall back from a skill to its category.
func DefaultImpactWeights() map[string]float64 {
	return map[string]float64{
		EquipmentOperation:   1.5,
		QualityControl:       1.4,
		ProcessManagement:    1.3,
		EquipmentMaintenance: 1.2,
		SafetyEnvironment:    1.0,
	}
}
