// Package signer produces instruction signatures over DID document bytes.
//
// It is the producer side of envelope verification, used by tooling and tests. Private keys
// never leave the process.
package signer

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/instruction"
)

// Signer signs payloads with one document key.
type Signer interface {
	// Sign signs the payload as-is; any digest is computed by the signer.
	Sign(payload []byte) ([]byte, error)
	// KeyID is the document key id the signature targets.
	KeyID() string
	// SignatureType is the instruction "type" of produced signatures.
	SignatureType() string
	// Suite is the key suite of the signer.
	Suite() model.Suite
	// PublicKeyBytes returns the public key as stored in a document key entry.
	PublicKeyBytes() ([]byte, error)
}

// Opt configures a signer.
type Opt func(opts *signerOptions)

type signerOptions struct {
	signatureType string
	format        Secp256k1Format
}

// WithSignatureType overrides the signature type written into instructions.
func WithSignatureType(signatureType string) Opt {
	return func(opts *signerOptions) {
		opts.signatureType = signatureType
	}
}

// WithSecp256k1Format selects the secp256k1 signature layout. The default is Compact.
func WithSecp256k1Format(format Secp256k1Format) Opt {
	return func(opts *signerOptions) {
		opts.format = format
	}
}

func applyOptions(defaultType string, opts []Opt) *signerOptions {
	o := &signerOptions{signatureType: defaultType}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// SignDocument signs the exact document bytes with every signer and returns the instruction
// entries. enc selects how signature values are written (Base58 or Base64).
func SignDocument(doc []byte, enc keyencoding.Kind, signers ...Signer) ([]instruction.SignatureEntry, error) {
	if enc != keyencoding.Base58 && enc != keyencoding.Base64 {
		return nil, fmt.Errorf("unsupported signature encoding %s", enc)
	}

	entries := make([]instruction.SignatureEntry, 0, len(signers))

	for _, s := range signers {
		sig, err := s.Sign(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to sign with %s: %w", s.KeyID(), err)
		}

		entries = append(entries, instruction.SignatureEntry{
			TargetKeyID: s.KeyID(),
			SuiteHint:   s.SignatureType(),
			Encoding:    enc,
			Value:       sig,
		})
	}

	return entries, nil
}

// KeyEntry renders the document publicKey entry of a signer.
func KeyEntry(s Signer, controller string, enc keyencoding.Kind, opts ...keyencoding.EncodeOpt) (json.RawMessage, error) {
	pub, err := s.PublicKeyBytes()
	if err != nil {
		return nil, err
	}

	if enc == keyencoding.JWK {
		opts = append([]keyencoding.EncodeOpt{keyencoding.WithJWKAlgorithm(keyencoding.AlgorithmForSuite(s.Suite()))}, opts...)
	}

	value, err := keyencoding.Encode(enc, pub, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	entry := map[string]json.RawMessage{
		enc.FieldName(): value,
	}

	for name, v := range map[string]string{
		"id":         s.KeyID(),
		"type":       s.Suite().DefaultKeyType(),
		"controller": controller,
	} {
		if v == "" {
			continue
		}

		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		entry[name] = b
	}

	return json.Marshal(entry)
}
