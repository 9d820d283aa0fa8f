package document

import (
	"fmt"
)

// ErrorKind classifies document parse failures.
type ErrorKind string

// Document error kinds, in the order Parse checks them.
const (
	KindInvalidJSON         ErrorKind = "InvalidJson"
	KindInvalidDocumentID   ErrorKind = "InvalidDocumentId"
	KindMissingPublicKey    ErrorKind = "MissingPublicKey"
	KindMissingKeyID        ErrorKind = "MissingKeyId"
	KindInvalidKeyID        ErrorKind = "InvalidKeyId"
	KindDuplicateKeyID      ErrorKind = "DuplicateKeyId"
	KindUnsupportedKeyType  ErrorKind = "UnsupportedKeyType"
	KindInvalidKeyEncoding  ErrorKind = "InvalidKeyEncoding"
	KindKeyMaterialMismatch ErrorKind = "KeyMaterialMismatch"
)

// Error is returned by Parse.
type Error struct {
	Kind ErrorKind
	// KeyID is set for failures attributable to a single key entry.
	KeyID string
	// Index is the position of the offending key entry, or -1.
	Index  int
	Reason string
	Err    error
}

// Sentinels for errors.Is.
var (
	ErrInvalidJSON         = &Error{Kind: KindInvalidJSON}
	ErrInvalidDocumentID   = &Error{Kind: KindInvalidDocumentID}
	ErrMissingPublicKey    = &Error{Kind: KindMissingPublicKey}
	ErrMissingKeyID        = &Error{Kind: KindMissingKeyID}
	ErrInvalidKeyID        = &Error{Kind: KindInvalidKeyID}
	ErrDuplicateKeyID      = &Error{Kind: KindDuplicateKeyID}
	ErrUnsupportedKeyType  = &Error{Kind: KindUnsupportedKeyType}
	ErrInvalidKeyEncoding  = &Error{Kind: KindInvalidKeyEncoding}
	ErrKeyMaterialMismatch = &Error{Kind: KindKeyMaterialMismatch}
)

func (e *Error) Error() string {
	msg := "document: " + string(e.Kind)
	switch {
	case e.KeyID != "":
		msg += fmt.Sprintf(" (key %q)", e.KeyID)
	case e.Index >= 0:
		msg += fmt.Sprintf(" (publicKey[%d])", e.Index)
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

	return ok && t.Kind == e.Kind
}

func documentError(kind ErrorKind, reason string, err error) *Error {
	return &Error{Kind: kind, Index: -1, Reason: reason, Err: err}
}

func keyError(kind ErrorKind, index int, keyID, reason string, err error) *Error {
	return &Error{Kind: kind, Index: index, KeyID: keyID, Reason: reason, Err: err}
}
