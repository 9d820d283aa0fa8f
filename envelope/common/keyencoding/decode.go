package keyencoding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

var errEmptyPayload = errors.New("empty payload")

// Field is the single encoded key field selected from a key entry.
type Field struct {
	Kind  Kind
	Value json.RawMessage
}

// Material is decoded public key material.
type Material struct {
	Kind  Kind
	Bytes []byte
	// SuiteHint is set when the encoding itself identifies the key's suite
	// (a PEM SubjectPublicKeyInfo or a JWK "alg"). It is empty otherwise.
	SuiteHint model.Suite
	// Variant names the multibase alphabet for Multibase material.
	Variant string
}

// Select picks the one encoded field among the members of a key entry object.
// Members whose name does not start with FieldPrefix are ignored; a JSON null counts as absent.
func Select(members map[string]json.RawMessage) (*Field, error) {
	var (
		present      []string
		unrecognized []string
	)

	for name, value := range members {
		if !strings.HasPrefix(name, FieldPrefix) {
			continue
		}

		if _, ok := KindForField(name); !ok {
			unrecognized = append(unrecognized, name)
			continue
		}

		if isNull(value) {
			continue
		}

		present = append(present, name)
	}

	sort.Strings(unrecognized)
	sort.Strings(present)

	switch {
	case len(unrecognized) > 0:
		return nil, &Error{Kind: KindUnrecognizedFieldName, Fields: unrecognized}
	case len(present) == 0:
		return nil, &Error{Kind: KindNoEncodingPresent}
	case len(present) > 1:
		return nil, &Error{Kind: KindMultipleEncodingsPresent, Fields: present}
	}

	kind, _ := KindForField(present[0])

	return &Field{Kind: kind, Value: members[present[0]]}, nil
}

// Decode selects the encoded field of a key entry and decodes it.
func Decode(members map[string]json.RawMessage) (*Material, error) {
	field, err := Select(members)
	if err != nil {
		return nil, err
	}

	return field.Decode()
}

// Decode decodes the field payload.
func (f *Field) Decode() (*Material, error) {
	m, err := f.decode()
	if err != nil {
		return nil, &Error{Kind: KindDecodeError, Fields: []string{f.Kind.FieldName()}, Err: err}
	}

	return m, nil
}

func (f *Field) decode() (*Material, error) {
	if f.Kind == JWK {
		b, hint, err := decodeJWKValue(f.Value)
		if err != nil {
			return nil, err
		}

		return &Material{Kind: JWK, Bytes: b, SuiteHint: hint}, nil
	}

	var s string
	if err := json.Unmarshal(f.Value, &s); err != nil {
		return nil, fmt.Errorf("value must be a JSON string: %w", err)
	}

	m := &Material{Kind: f.Kind}

	var err error

	switch f.Kind {
	case Base58:
		m.Bytes, err = DecodeBase58(s)
	case Base64:
		m.Bytes, err = DecodeBase64(s)
	case Hex:
		m.Bytes, err = DecodeHex(s)
	case Multibase:
		m.Bytes, m.Variant, err = DecodeMultibase(s)
	case PEM:
		m.Bytes, m.SuiteHint, err = DecodePEM(s)
	default:
		err = fmt.Errorf("unsupported encoding %s", f.Kind)
	}

	if err != nil {
		return nil, err
	}

	return m, nil
}

func decodeJWKValue(value json.RawMessage) ([]byte, model.Suite, error) {
	trimmed := bytes.TrimSpace(value)

	// Some producers embed the JWK as a JSON string rather than an object.
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, "", fmt.Errorf("invalid JWK string: %w", err)
		}

		trimmed = []byte(s)
	}

	return DecodeJWK(trimmed)
}

func isNull(value json.RawMessage) bool {
	return len(value) == 0 || string(bytes.TrimSpace(value)) == "null"
}
