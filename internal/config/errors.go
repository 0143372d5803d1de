package config

import (
	"errors"
	"fmt"
)

// Error is the single error kind reported at the session boundary: malformed
// config, unsupported provider, unknown model name and wrapped client
// construction failures all surface as *Error.
type Error struct {
	Msg string
	Err error
}

// Errorf builds an *Error with a formatted message and no cause.
func Errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that carries err as its cause.
func Wrap(err error, msg string) *Error {
	return &Error{Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err or anything it wraps is a configuration error.
func IsError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}
