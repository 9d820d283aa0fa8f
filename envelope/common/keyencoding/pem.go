package keyencoding

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// PEMBlockType is the only accepted PEM block type.
const PEMBlockType = "PUBLIC KEY"

// DecodePEM decodes a single "PUBLIC KEY" PEM block and returns its DER payload.
// When the payload is a SubjectPublicKeyInfo understood by crypto/x509 the key's suite is
// returned as a hint.
func DecodePEM(s string) ([]byte, model.Suite, error) {
	block, rest := pem.Decode([]byte(s))
	if block == nil {
		return nil, "", errors.New("no PEM block found")
	}

	if block.Type != PEMBlockType {
		return nil, "", fmt.Errorf("unexpected PEM block type %q", block.Type)
	}

	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, "", errors.New("unexpected data after PEM block")
	}

	if len(block.Bytes) == 0 {
		return nil, "", errEmptyPayload
	}

	var hint model.Suite

	if key, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		switch key.(type) {
		case ed25519.PublicKey:
			hint = model.SuiteEd25519
		case *rsa.PublicKey:
			hint = model.SuiteRSA
		}
	}

	return block.Bytes, hint, nil
}

// EncodePEM wraps DER bytes into a "PUBLIC KEY" PEM block.
func EncodePEM(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: PEMBlockType, Bytes: der}))
}
