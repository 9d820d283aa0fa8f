// Package schema holds the structural JSON schemas of envelope documents and instructions.
package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "type": "object",
  "properties": {
    "id": {"type": ["string", "null"]},
    "publicKey": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "null"]},
          "type": {"type": ["string", "null"]},
          "controller": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

const instructionSchema = `{
  "type": "object",
  "properties": {
    "action": {"type": ["string", "null"]},
    "signatures": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "null"]},
          "type": {"type": ["string", "null"]},
          "signatureBase58": {"type": ["string", "null"]},
          "signatureBase64": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

// ErrViolation is wrapped by Validate when the input does not match the schema.
var ErrViolation = errors.New("schema violation")

var (
	documentLoader    = sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(documentSchema) })
	instructionLoader = sync.OnceValues(func() (*gojsonschema.Schema, error) { return compile(instructionSchema) })
)

func compile(s string) (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}

// ValidateDocument checks raw against the DID document schema.
func ValidateDocument(raw []byte) error {
	s, err := documentLoader()
	if err != nil {
		return err
	}

	return validate(s, raw)
}

// ValidateInstruction checks raw against the signing instruction schema.
func ValidateInstruction(raw []byte) error {
	s, err := instructionLoader()
	if err != nil {
		return err
	}

	return validate(s, raw)
}

func validate(s *gojsonschema.Schema, raw []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrViolation, strings.Join(msgs, "; "))
}
