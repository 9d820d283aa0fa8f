package signer

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// Secp256k1Format is the layout of a secp256k1 signature.
type Secp256k1Format int

const (
	// Compact is 64 bytes r||s.
	Compact Secp256k1Format = iota
	// Recoverable is 65 bytes r||s||v with v in {0, 1}.
	Recoverable
	// DER is an ASN.1 DER sequence of r and s.
	DER
)

// Secp256k1Signer signs the SHA-256 digest of the payload. Signatures are always low-S.
type Secp256k1Signer struct {
	keyID         string
	signatureType string
	format        Secp256k1Format
	priv          *ecdsa.PrivateKey
}

// NewSecp256k1Signer creates a signer from a hex private key, with or without "0x".
func NewSecp256k1Signer(keyID, privHex string, opts ...Opt) (Signer, error) {
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(privHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse secp256k1 private key: %w", err)
	}

	return newSecp256k1Signer(keyID, priv, opts), nil
}

func newSecp256k1Signer(keyID string, priv *ecdsa.PrivateKey, opts []Opt) *Secp256k1Signer {
	o := applyOptions(model.SignatureTypeEcdsaSecp256k1Signature2019, opts)

	return &Secp256k1Signer{keyID: keyID, signatureType: o.signatureType, format: o.format, priv: priv}
}

func (s *Secp256k1Signer) Sign(payload []byte) ([]byte, error) {
	hash := sha256.Sum256(payload)

	if s.format == DER {
		key, _ := btcec.PrivKeyFromBytes(crypto.FromECDSA(s.priv))

		return btcecdsa.Sign(key, hash[:]).Serialize(), nil
	}

	signature, err := crypto.Sign(hash[:], s.priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	if len(signature) != 65 {
		return nil, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(signature))
	}

	if s.format == Recoverable {
		return signature, nil
	}

	return signature[:64], nil
}

func (s *Secp256k1Signer) KeyID() string         { return s.keyID }
func (s *Secp256k1Signer) SignatureType() string { return s.signatureType }
func (s *Secp256k1Signer) Suite() model.Suite    { return model.SuiteEcdsaSecp256k1 }

// PublicKeyBytes returns the 33-byte compressed point.
func (s *Secp256k1Signer) PublicKeyBytes() ([]byte, error) {
	return crypto.CompressPubkey(&s.priv.PublicKey), nil
}
