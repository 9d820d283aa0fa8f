package instruction

import (
	"fmt"
)

// ErrorKind classifies instruction parse failures.
type ErrorKind string

// Instruction error kinds, in the order Parse checks them.
const (
	KindEmptyInput               ErrorKind = "EmptyInput"
	KindInvalidJSON              ErrorKind = "InvalidJson"
	KindMissingAction            ErrorKind = "MissingAction"
	KindMissingSignatures        ErrorKind = "MissingSignatures"
	KindMissingTargetKeyID       ErrorKind = "MissingTargetKeyId"
	KindMissingSignatureValue    ErrorKind = "MissingSignatureValue"
	KindAmbiguousSignatureValue  ErrorKind = "AmbiguousSignatureValue"
	KindInvalidSignatureEncoding ErrorKind = "InvalidSignatureEncoding"
	KindDuplicateTargetKeyID     ErrorKind = "DuplicateTargetKeyId"
)

// Error is returned by Parse.
type Error struct {
	Kind ErrorKind
	// Index is the position of the offending signature entry, or -1.
	Index int
	KeyID string
	Err   error
}

// Sentinels for errors.Is.
var (
	ErrEmptyInput               = &Error{Kind: KindEmptyInput}
	ErrInvalidJSON              = &Error{Kind: KindInvalidJSON}
	ErrMissingAction            = &Error{Kind: KindMissingAction}
	ErrMissingSignatures        = &Error{Kind: KindMissingSignatures}
	ErrMissingTargetKeyID       = &Error{Kind: KindMissingTargetKeyID}
	ErrMissingSignatureValue    = &Error{Kind: KindMissingSignatureValue}
	ErrAmbiguousSignatureValue  = &Error{Kind: KindAmbiguousSignatureValue}
	ErrInvalidSignatureEncoding = &Error{Kind: KindInvalidSignatureEncoding}
	ErrDuplicateTargetKeyID     = &Error{Kind: KindDuplicateTargetKeyID}
)

func (e *Error) Error() string {
	msg := "instruction: " + string(e.Kind)
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (signatures[%d]", e.Index)
		if e.KeyID != "" {
			msg += fmt.Sprintf(" targeting %q", e.KeyID)
		}
		msg += ")"
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

	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Index: -1, Err: err}
}

func entryError(kind ErrorKind, index int, keyID string, err error) *Error {
	return &Error{Kind: kind, Index: index, KeyID: keyID, Err: err}
}
