package envelope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/document"
	"github.com/pilacorp/go-did-envelope/envelope/instruction"
)

// ErrorKind classifies verification failures.
type ErrorKind string

// Verification error kinds, in the order Verify checks them.
const (
	KindIdentifierMismatch ErrorKind = "IdentifierMismatch"
	KindMissingDocumentID  ErrorKind = "MissingDocumentId"
	KindActionMismatch     ErrorKind = "ActionMismatch"
	KindUnknownTargetKey   ErrorKind = "UnknownTargetKey"
	KindSuiteMismatch      ErrorKind = "SuiteMismatch"
	KindSignatureInvalid   ErrorKind = "SignatureInvalid"
)

// Error is returned by Verify.
type Error struct {
	Kind ErrorKind
	// KeyID names the offending key for UnknownTargetKey and SuiteMismatch.
	KeyID    string
	Expected string
	Found    string
	Err      error

	failures []string
}

// Sentinels for errors.Is.
var (
	ErrIdentifierMismatch = &Error{Kind: KindIdentifierMismatch}
	ErrMissingDocumentID  = &Error{Kind: KindMissingDocumentID}
	ErrActionMismatch     = &Error{Kind: KindActionMismatch}
	ErrUnknownTargetKey   = &Error{Kind: KindUnknownTargetKey}
	ErrSuiteMismatch      = &Error{Kind: KindSuiteMismatch}
	ErrSignatureInvalid   = &Error{Kind: KindSignatureInvalid}
)

func (e *Error) Error() string {
	msg := "envelope: " + string(e.Kind)

	switch {
	case len(e.failures) > 0:
		msg += fmt.Sprintf(" [%s]", strings.Join(e.failures, ", "))
	case e.KeyID != "":
		msg += fmt.Sprintf(" (key %q)", e.KeyID)
	}

	if e.Expected != "" || e.Found != "" {
		msg += fmt.Sprintf(": expected %q, found %q", e.Expected, e.Found)
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

// Failures returns the key ids whose signatures did not verify, in instruction order.
// It is empty for every kind but SignatureInvalid.
func (e *Error) Failures() []string {
	return append([]string(nil), e.failures...)
}

// Class groups error kinds the way callers usually react to them.
type Class string

// Error classes.
const (
	// ClassIdentifier is a malformed identifier.
	ClassIdentifier Class = "identifier"
	// ClassStructural is malformed or inconsistent input.
	ClassStructural Class = "structural"
	// ClassAuthorization is well-formed input for another identifier, action or network.
	ClassAuthorization Class = "authorization"
	// ClassCrypto is a signature that does not verify.
	ClassCrypto Class = "crypto"
	ClassUnknown Class = "unknown"
)

// ClassOf returns the class of an error returned by this module.
func ClassOf(err error) Class {
	var (
		envErr   *Error
		docErr   *document.Error
		instrErr *instruction.Error
		encErr   *keyencoding.Error
		didErr   *did.Error
	)

	switch {
	case err == nil:
		return ClassUnknown
	case errors.As(err, &envErr):
		switch envErr.Kind {
		case KindIdentifierMismatch, KindActionMismatch:
			return ClassAuthorization
		case KindSignatureInvalid:
			return ClassCrypto
		default:
			return ClassStructural
		}
	case errors.As(err, &docErr), errors.As(err, &instrErr), errors.As(err, &encErr):
		return ClassStructural
	case errors.As(err, &didErr):
		if didErr.Kind == did.KindNetworkNotAllowed {
			return ClassAuthorization
		}

		return ClassIdentifier
	default:
		return ClassUnknown
	}
}

// KindOf returns the kind text of an error returned by this module, or "" for foreign errors.
func KindOf(err error) string {
	var (
		envErr   *Error
		docErr   *document.Error
		instrErr *instruction.Error
		encErr   *keyencoding.Error
		didErr   *did.Error
	)

	switch {
	case errors.As(err, &envErr):
		return string(envErr.Kind)
	case errors.As(err, &docErr):
		return string(docErr.Kind)
	case errors.As(err, &instrErr):
		return string(instrErr.Kind)
	case errors.As(err, &encErr):
		return string(encErr.Kind)
	case errors.As(err, &didErr):
		return string(didErr.Kind)
	default:
		return ""
	}
}
