package scoring

import "errors"

// ErrUnknownPreset is returned for a preset name outside Presets().
var ErrUnknownPreset = errors.New("unknown scoring preset")
