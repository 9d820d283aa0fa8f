// Package instruction parses and builds the signing instruction that accompanies a DID document.
package instruction

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/common/schema"
)

// Signature value field names.
const (
	FieldSignatureBase58 = "signatureBase58"
	FieldSignatureBase64 = "signatureBase64"
)

// SignatureEntry is one signature over the document bytes.
type SignatureEntry struct {
	// TargetKeyID is the id of the document key that produced the signature.
	TargetKeyID string
	// SuiteHint is the signature "type", e.g. Ed25519Signature2018.
	SuiteHint string
	// Encoding is Base58 or Base64; it only matters when marshaling.
	Encoding keyencoding.Kind
	Value    []byte
}

// Instruction is a parsed signing instruction.
type Instruction struct {
	Action     model.Action
	Signatures []SignatureEntry
}

type wireSignature struct {
	ID              string  `json:"id,omitempty"`
	Type            string  `json:"type,omitempty"`
	SignatureBase58 *string `json:"signatureBase58,omitempty"`
	SignatureBase64 *string `json:"signatureBase64,omitempty"`
}

type wireInstruction struct {
	Action     *string         `json:"action,omitempty"`
	Signatures []wireSignature `json:"signatures"`
}

// Parse parses raw as a signing instruction.
func Parse(raw []byte) (*Instruction, error) {
	if len(raw) == 0 {
		return nil, newError(KindEmptyInput, nil)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, newError(KindInvalidJSON, err)
	}

	if top == nil {
		return nil, newError(KindInvalidJSON, fmt.Errorf("top-level value must be an object"))
	}

	if err := schema.ValidateInstruction(raw); err != nil {
		return nil, newError(KindInvalidJSON, err)
	}

	// Members are looked up by exact name. encoding/json struct decoding would also accept
	// "ACTION" or "Signatures" in place of the real members.
	action, err := stringMember(top, "action")
	if err != nil {
		return nil, newError(KindInvalidJSON, err)
	}

	if action == "" {
		return nil, newError(KindMissingAction, nil)
	}

	var entries []map[string]json.RawMessage
	if value, ok := top["signatures"]; ok {
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, newError(KindInvalidJSON, err)
		}
	}

	if len(entries) == 0 {
		return nil, newError(KindMissingSignatures, nil)
	}

	instr := &Instruction{
		Action:     model.Action(action),
		Signatures: make([]SignatureEntry, 0, len(entries)),
	}

	for i, members := range entries {
		entry, err := parseEntry(i, members)
		if err != nil {
			return nil, err
		}

		instr.Signatures = append(instr.Signatures, entry)
	}

	seen := make(map[string]struct{}, len(instr.Signatures))
	for i, s := range instr.Signatures {
		if _, ok := seen[s.TargetKeyID]; ok {
			return nil, entryError(KindDuplicateTargetKeyID, i, s.TargetKeyID, nil)
		}

		seen[s.TargetKeyID] = struct{}{}
	}

	return instr, nil
}

func parseEntry(index int, members map[string]json.RawMessage) (SignatureEntry, error) {
	id, err := stringMember(members, "id")
	if err != nil {
		return SignatureEntry{}, entryError(KindInvalidJSON, index, "", err)
	}

	if id == "" {
		return SignatureEntry{}, entryError(KindMissingTargetKeyID, index, "", nil)
	}

	sigType, err := stringMember(members, "type")
	if err != nil {
		return SignatureEntry{}, entryError(KindInvalidJSON, index, id, err)
	}

	b58, err := stringMember(members, FieldSignatureBase58)
	if err != nil {
		return SignatureEntry{}, entryError(KindInvalidJSON, index, id, err)
	}

	b64, err := stringMember(members, FieldSignatureBase64)
	if err != nil {
		return SignatureEntry{}, entryError(KindInvalidJSON, index, id, err)
	}

	var (
		encoding keyencoding.Kind
		value    string
	)

	switch {
	case hasMember(members, FieldSignatureBase58) && hasMember(members, FieldSignatureBase64):
		return SignatureEntry{}, entryError(KindAmbiguousSignatureValue, index, id, nil)
	case hasMember(members, FieldSignatureBase58):
		encoding, value = keyencoding.Base58, b58
	case hasMember(members, FieldSignatureBase64):
		encoding, value = keyencoding.Base64, b64
	}

	// An empty value is as absent as a missing one.
	if value == "" {
		return SignatureEntry{}, entryError(KindMissingSignatureValue, index, id, nil)
	}

	sig, err := decodeSignature(encoding, value)
	if err != nil {
		return SignatureEntry{}, entryError(KindInvalidSignatureEncoding, index, id, err)
	}

	return SignatureEntry{
		TargetKeyID: id,
		SuiteHint:   sigType,
		Encoding:    encoding,
		Value:       sig,
	}, nil
}

// hasMember reports whether name is present with a non-null value.
func hasMember(members map[string]json.RawMessage, name string) bool {
	value, ok := members[name]

	return ok && string(value) != "null"
}

// stringMember returns a string member, "" when absent or null.
func stringMember(members map[string]json.RawMessage, name string) (string, error) {
	if !hasMember(members, name) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(members[name], &s); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", name, err)
	}

	return s, nil
}

func decodeSignature(encoding keyencoding.Kind, s string) ([]byte, error) {
	if encoding == keyencoding.Base64 {
		return keyencoding.DecodeBase64(s)
	}

	return keyencoding.DecodeBase58(s)
}

// TargetKeyIDs returns the target key ids in instruction order.
func (i *Instruction) TargetKeyIDs() []string {
	ids := make([]string, len(i.Signatures))
	for n, s := range i.Signatures {
		ids[n] = s.TargetKeyID
	}

	return ids
}
