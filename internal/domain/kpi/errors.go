package kpi

import "errors"

// Sentinel errors for the KPI views.
var (
	ErrUnknownLocation = errors.New("location has no records")
	ErrUnknownKPI      = errors.New("unknown kpi")
	ErrUnknownVariable = errors.New("unknown trend variable")
)
