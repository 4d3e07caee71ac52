// Package catalogerr classifies the error kinds of spec §7. None of
// these ever cross a component boundary as a returned error except at
// the points the spec names (fatal setup, cancellation); everywhere
// else a recovered error becomes a reject reason or an empty result.
package catalogerr

import "errors"

var (
	ErrNetwork       = errors.New("network error")
	ErrParse         = errors.New("parse error")
	ErrCancellation  = errors.New("cancelled")
	ErrInternal      = errors.New("internal error")
	ErrInputInvalid  = errors.New("input validation error")
)

// IsNetwork reports whether err (or a wrapped cause) is a Network error.
func IsNetwork(err error) bool { return errors.Is(err, ErrNetwork) }

// IsCancellation reports whether err (or a wrapped cause) signals
// cooperative cancellation.
func IsCancellation(err error) bool { return errors.Is(err, ErrCancellation) }
