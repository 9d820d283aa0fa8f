// Package document parses DID documents for envelope verification.
//
// A Document keeps the exact bytes it was parsed from. Signatures are always checked against
// those bytes; the document is never re-serialized.
package document

import (
	gocrypto "crypto"
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/crypto"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/common/schema"
)

// PublicKeyMaterial is a decoded publicKey entry.
type PublicKeyMaterial struct {
	ID         string
	Controller string
	Type       string
	Suite      model.Suite
	Encoding   keyencoding.Kind
	// Bytes is the decoded key payload as it appeared in the document.
	Bytes []byte
	// PublicKey is Bytes parsed for Suite.
	PublicKey gocrypto.PublicKey
}

// Document is a parsed DID document.
type Document struct {
	// ID is nil when the document carries no "id".
	ID   *did.LedgerDID
	Keys map[string]*PublicKeyMaterial

	raw   []byte
	order []string
}

// Parse parses raw as a DID document. raw is copied; the caller may reuse it.
func Parse(raw []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, documentError(KindInvalidJSON, "", err)
	}

	if top == nil {
		return nil, documentError(KindInvalidJSON, "top-level value must be an object", nil)
	}

	if err := schema.ValidateDocument(raw); err != nil {
		return nil, documentError(KindInvalidJSON, "", err)
	}

	// Members are looked up by exact name. encoding/json struct decoding would also accept
	// "ID" or "PublicKey" and let them override the real members.
	rawID, err := stringMember(top, "id")
	if err != nil {
		return nil, documentError(KindInvalidJSON, "", err)
	}

	var entries []map[string]json.RawMessage
	if value, ok := top["publicKey"]; ok {
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, documentError(KindInvalidJSON, "", err)
		}
	}

	doc := &Document{
		raw:  append([]byte(nil), raw...),
		Keys: make(map[string]*PublicKeyMaterial, len(entries)),
	}

	if value, ok := top["id"]; ok && string(value) != "null" {
		id, err := did.Parse(rawID)
		if err != nil {
			return nil, documentError(KindInvalidDocumentID, "", err)
		}

		doc.ID = id
	}

	if len(entries) == 0 {
		return nil, documentError(KindMissingPublicKey, "", nil)
	}

	// Ids are checked for every entry before any key material is decoded.
	ids := make([]string, len(entries))
	seen := make(map[string]int, len(entries))

	for i, entry := range entries {
		id, err := stringMember(entry, "id")
		if err != nil || id == "" {
			return nil, keyError(KindMissingKeyID, i, "", "", err)
		}

		if _, _, err := did.SplitKeyID(id); err != nil {
			return nil, keyError(KindInvalidKeyID, i, id, "", err)
		}

		if first, ok := seen[id]; ok {
			return nil, keyError(KindDuplicateKeyID, i, id, fmt.Sprintf("also declared by publicKey[%d]", first), nil)
		}

		seen[id] = i
		ids[i] = id
	}

	for i, entry := range entries {
		key, err := parseKey(i, ids[i], entry)
		if err != nil {
			return nil, err
		}

		doc.Keys[key.ID] = key
	}

	doc.order = ids

	return doc, nil
}

func parseKey(index int, id string, entry map[string]json.RawMessage) (*PublicKeyMaterial, error) {
	keyType, err := stringMember(entry, "type")
	if err != nil {
		return nil, keyError(KindUnsupportedKeyType, index, id, "", err)
	}

	suite, ok := model.SuiteForKeyType(keyType)
	if !ok {
		return nil, keyError(KindUnsupportedKeyType, index, id, fmt.Sprintf("unsupported key type %q", keyType), nil)
	}

	controller, _ := stringMember(entry, "controller")

	material, err := keyencoding.Decode(entry)
	if err != nil {
		return nil, keyError(KindInvalidKeyEncoding, index, id, "", err)
	}

	if material.SuiteHint != "" && material.SuiteHint != suite {
		return nil, keyError(KindKeyMaterialMismatch, index, id,
			fmt.Sprintf("%s key declared as %s", material.SuiteHint, keyType), nil)
	}

	pub, err := crypto.ParsePublicKey(suite, material.Bytes)
	if err != nil {
		return nil, keyError(KindKeyMaterialMismatch, index, id, "", err)
	}

	return &PublicKeyMaterial{
		ID:         id,
		Controller: controller,
		Type:       keyType,
		Suite:      suite,
		Encoding:   material.Kind,
		Bytes:      material.Bytes,
		PublicKey:  pub,
	}, nil
}

// stringMember returns a string member, "" when absent or null.
func stringMember(entry map[string]json.RawMessage, name string) (string, error) {
	value, ok := entry[name]
	if !ok || string(value) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", name, err)
	}

	return s, nil
}

// Raw returns the bytes the document was parsed from. The slice must not be modified.
func (d *Document) Raw() []byte {
	return d.raw
}

// KeyIDs returns the key ids in document order.
func (d *Document) KeyIDs() []string {
	return append([]string(nil), d.order...)
}

// Key returns the key with the given id.
func (d *Document) Key(id string) (*PublicKeyMaterial, bool) {
	k, ok := d.Keys[id]

	return k, ok
}
