package model

import "errors"

// Sentinel errors for model parsing and validation.
var (
	ErrUnknownField    = errors.New("unknown group field")
	ErrMalformedKey    = errors.New("malformed group key")
	ErrScoreOutOfRange = errors.New("skill score out of range")
)
