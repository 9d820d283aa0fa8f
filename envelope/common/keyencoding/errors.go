package keyencoding

import (
	"fmt"
	"strings"
)

// ErrorKind classifies key encoding failures.
type ErrorKind string

// Encoding error kinds.
const (
	KindNoEncodingPresent        ErrorKind = "NoEncodingPresent"
	KindMultipleEncodingsPresent ErrorKind = "MultipleEncodingsPresent"
	KindUnrecognizedFieldName    ErrorKind = "UnrecognizedFieldName"
	KindDecodeError              ErrorKind = "DecodeError"
)

// Error is returned by Decode.
type Error struct {
	Kind ErrorKind
	// Fields names the offending field(s), sorted.
	Fields []string
	Err    error
}

// Sentinels for errors.Is.
var (
	ErrNoEncodingPresent        = &Error{Kind: KindNoEncodingPresent}
	ErrMultipleEncodingsPresent = &Error{Kind: KindMultipleEncodingsPresent}
	ErrUnrecognizedFieldName    = &Error{Kind: KindUnrecognizedFieldName}
	ErrDecodeError              = &Error{Kind: KindDecodeError}
)

func (e *Error) Error() string {
	msg := "key encoding: " + string(e.Kind)
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(e.Fields, ", "))
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
