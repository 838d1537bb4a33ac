package catalog

import "errors"

// Sentinel errors for catalog construction and lookup.
var (
	ErrUnknownMetric = errors.New("unknown skill or category")
	ErrDuplicateName = errors.New("duplicate skill or category name")
	ErrEmptyCategory = errors.New("category must have a name and at least one skill")
)
