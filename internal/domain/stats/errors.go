package stats

import "errors"

// Sentinel errors returned by the statistics helpers.
var (
	ErrEmptySample        = errors.New("empty sample")
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
	ErrLengthMismatch     = errors.New("x and y must have the same length")
	ErrInsufficientData   = errors.New("at least two observations are required")
	ErrDegenerate         = errors.New("x has no variance")
)
