package source

import "errors"

// Sentinel kinds for CSV loading errors.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyFile     = errors.New("empty file")
)
