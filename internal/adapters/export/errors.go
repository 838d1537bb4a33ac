package export

import "errors"

// ErrUnknownFormat reports an export format other than xlsx or csv.
var ErrUnknownFormat = errors.New("unknown export format")
