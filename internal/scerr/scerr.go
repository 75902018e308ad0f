// Package scerr defines the error taxonomy shared by Scout's components.
//
// Handlers and middleware classify failures with errors.Is/errors.As against
// these sentinels instead of matching error strings.
package scerr

import "errors"

// Kind identifies which layer of the request lifecycle produced an error.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindRateLimit
	KindConfig
	KindConnect
	KindExec
	KindTimeout
	KindTransfer
	KindOutputTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindConfig:
		return "config"
	case KindConnect:
		return "connect"
	case KindExec:
		return "exec"
	case KindTimeout:
		return "timeout"
	case KindTransfer:
		return "transfer"
	case KindOutputTooLarge:
		return "output_too_large"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// classification without parsing messages.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
