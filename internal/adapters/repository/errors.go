package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrNotFound      = errors.New("location not found")
	ErrNotLoaded     = errors.New("dataset not loaded")
	ErrInvalidRecord = errors.New("invalid record")
)
