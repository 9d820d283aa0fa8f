package signer

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// Ed25519Signer signs with an Ed25519 private key.
type Ed25519Signer struct {
	keyID         string
	signatureType string
	priv          ed25519.PrivateKey
}

// NewEd25519Signer creates an Ed25519Signer. The default signature type is Ed25519Signature2018.
func NewEd25519Signer(keyID string, priv ed25519.PrivateKey, opts ...Opt) (Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}

	o := applyOptions(model.SignatureTypeEd25519Signature2018, opts)

	return &Ed25519Signer{keyID: keyID, signatureType: o.signatureType, priv: priv}, nil
}

func (s *Ed25519Signer) Sign(payload []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, payload), nil
}

func (s *Ed25519Signer) KeyID() string         { return s.keyID }
func (s *Ed25519Signer) SignatureType() string { return s.signatureType }
func (s *Ed25519Signer) Suite() model.Suite    { return model.SuiteEd25519 }

// PublicKeyBytes returns the 32 raw key bytes.
func (s *Ed25519Signer) PublicKeyBytes() ([]byte, error) {
	return append([]byte(nil), s.priv.Public().(ed25519.PublicKey)...), nil
}
