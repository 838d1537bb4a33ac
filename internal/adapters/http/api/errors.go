package api

import (
	"errors"
	"fmt"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Error is a handler failure tagged with the response kind.
type Error struct {
	Op   string
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewKind returns an Error of an explicit kind.
func NewKind(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap classifies err by the service error kinds.
func Wrap(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Op: op, Kind: service.ErrorKind(err), Err: err}
}

func badRequest(op, format string, args ...any) *Error {
	return NewKind(op, service.KindInvalidArgument, fmt.Errorf("%w: "+format, append([]any{ErrBadRequest}, args...)...))
}
