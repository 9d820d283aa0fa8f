package crypto

import (
	gocrypto "crypto"
	"crypto/ed25519"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// Ed25519Verifier verifies RFC 8032 signatures over the raw message.
type Ed25519Verifier struct {
	signatureType string
}

// NewEd25519Verifier creates an Ed25519Verifier for the given signature type.
func NewEd25519Verifier(signatureType string) *Ed25519Verifier {
	return &Ed25519Verifier{signatureType: signatureType}
}

func (v *Ed25519Verifier) SignatureType() string { return v.signatureType }

func (v *Ed25519Verifier) Suite() model.Suite { return model.SuiteEd25519 }

// Verify verifies the signature.
func (v *Ed25519Verifier) Verify(pubKey gocrypto.PublicKey, msg, signature []byte) error {
	key, ok := pubKey.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("ed25519: unexpected public key type %T", pubKey)
	}

	// ed25519.Verify panics on a short key
	if len(key) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519: invalid key length %d", len(key))
	}

	if !ed25519.Verify(key, msg, signature) {
		return fmt.Errorf("ed25519: %w", ErrInvalidSignature)
	}

	return nil
}
