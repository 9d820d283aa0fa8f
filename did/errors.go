package did

import (
	"fmt"
)

// ErrorKind classifies why an identifier was rejected.
type ErrorKind string

// Identifier error kinds.
const (
	KindInvalidScheme ErrorKind = "InvalidScheme"
	KindMalformed     ErrorKind = "Malformed"
	KindInvalidUUID   ErrorKind = "InvalidUuid"
	KindInvalidKeyID  ErrorKind = "InvalidKeyId"

	// KindNetworkNotAllowed is returned by NetworkPolicy.Check, never by Parse.
	KindNetworkNotAllowed ErrorKind = "NetworkNotAllowed"
)

// Error is the only error type returned by Parse, SplitKeyID and NetworkPolicy.Check.
type Error struct {
	Kind   ErrorKind
	Input  string
	Reason string
	Err    error
}

// Sentinels for use with errors.Is. Only the Kind is compared.
var (
	ErrInvalidScheme     = &Error{Kind: KindInvalidScheme}
	ErrMalformed         = &Error{Kind: KindMalformed}
	ErrInvalidUUID       = &Error{Kind: KindInvalidUUID}
	ErrInvalidKeyID      = &Error{Kind: KindInvalidKeyID}
	ErrNetworkNotAllowed = &Error{Kind: KindNetworkNotAllowed}
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("did: %s", e.Kind)
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func newError(kind ErrorKind, input, reason string, err error) *Error {
	return &Error{Kind: kind, Input: input, Reason: reason, Err: err}
}
