// Package apperr defines the error kinds every spotctl command can fail with
// and how each maps to a process exit code.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindAuth            Kind = iota + 1 // Bad or missing credentials
	KindNetwork                         // Transport or service failure
	KindNotFound                        // Search returned nothing
	KindBridge                          // Local player unreachable
	KindInvalidArgument                 // Malformed user input
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth error"
	case KindNetwork:
		return "network error"
	case KindNotFound:
		return "not found"
	case KindBridge:
		return "player error"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "error"
	}
}

// Error is a classified failure.
//
// Op names the operation that failed (for example "search" or "set volume").
// Err is the underlying cause and may be nil.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error returns the error message.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
//
// This lets errors.Is(err, apperr.ErrBridge) match any bridge failure
// regardless of Op or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrAuth            = &Error{Kind: KindAuth}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrBridge          = &Error{Kind: KindBridge}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
)

// New builds a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Auth wraps err as an authentication failure.
func Auth(op string, err error) *Error { return New(KindAuth, op, err) }

// Network wraps err as a transport failure.
func Network(op string, err error) *Error { return New(KindNetwork, op, err) }

// NotFound reports an empty search.
func NotFound(op string) *Error { return New(KindNotFound, op, nil) }

// Bridge wraps err as a local player failure.
func Bridge(op string, err error) *Error { return New(KindBridge, op, err) }

// InvalidArgument reports malformed user input.
func InvalidArgument(format string, args ...interface{}) *Error {
	return New(KindInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitCode maps an error to the process exit code. A search that found
// nothing is a normal negative outcome and exits 0.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrNotFound) {
		return ExitOK
	}
	return ExitFailure
}
