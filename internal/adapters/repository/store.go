// Package repository holds the loaded workforce dataset.
package repository

import (
	"context"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
)

// Dataset is everything the analyses read: employee skill evaluations and
// daily production results.
type Dataset struct {
	Skills     []model.SkillRecord
	Production []model.DailyProductionRecord
}

// Counts describes the size of the published dataset.
type Counts struct {
	Skills     int `json:"skills"`
	Production int `json:"production"`
	Locations  int `json:"locations"`
}

// LocationInfo describes one location of the dataset.
type LocationInfo struct {
	Name       string `json:"name"`
	Employees  int    `json:"employees"`
	Production int    `json:"production"`
}

// Store provides read access to the dataset and a way to swap it.
type Store interface {
	// Replace validates ds and publishes it atomically.
	Replace(ctx context.Context, ds Dataset) error

	// Skills returns the skill records that pass f.
	// Returns ErrNotLoaded before the first Replace.
	Skills(ctx context.Context, f model.Filter) ([]model.SkillRecord, error)

	// Production returns the daily records that pass f.
	Production(ctx context.Context, f model.Filter) ([]model.DailyProductionRecord, error)

	// Location returns ErrNotFound if name appears in neither dataset.
	Location(ctx context.Context, name string) (LocationInfo, error)

	// Locations lists the known locations in ascending order.
	Locations(ctx context.Context) []string

	// Count returns the size of the published dataset.
	Count(ctx context.Context) Counts
}
