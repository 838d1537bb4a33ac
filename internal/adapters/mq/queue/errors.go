package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrClosed = errors.New("reload queue closed")
	ErrFull   = errors.New("reload queue full")
)
