package synth

import "errors"

// ErrInvalidConfig reports a generator config that cannot produce data.
var ErrInvalidConfig = errors.New("invalid generator config")
