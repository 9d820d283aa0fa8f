package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// RSAKeySize is the modulus size of generated RSA keys.
const RSAKeySize = 2048

const pkcs8BlockType = "PRIVATE KEY"

// Generate creates a signer with a fresh key of the given suite.
// For RSA, passing WithSignatureType(RsaSignaturePss2018) selects PSS padding.
func Generate(suite model.Suite, keyID string, opts ...Opt) (Signer, error) {
	switch suite {
	case model.SuiteEd25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
		}

		return NewEd25519Signer(keyID, priv, opts...)
	case model.SuiteRSA:
		priv, err := rsa.GenerateKey(rand.Reader, RSAKeySize)
		if err != nil {
			return nil, fmt.Errorf("failed to generate rsa key: %w", err)
		}

		return rsaSignerFor(keyID, priv, opts)
	case model.SuiteEcdsaSecp256k1:
		key, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
		}

		priv, err := crypto.ToECDSA(key.Serialize())
		if err != nil {
			return nil, err
		}

		return newSecp256k1Signer(keyID, priv, opts), nil
	default:
		return nil, fmt.Errorf("unsupported suite %q", suite)
	}
}

func rsaSignerFor(keyID string, priv *rsa.PrivateKey, opts []Opt) (Signer, error) {
	if applyOptions("", opts).signatureType == model.SignatureTypeRsaPssSignature2018 {
		return NewRSAPSSSigner(keyID, priv, opts...)
	}

	return NewRSASigner(keyID, priv, opts...)
}

// MarshalPrivateKey exports the signer's private key: PKCS#8 PEM for Ed25519 and RSA,
// 0x-prefixed hex for secp256k1.
func MarshalPrivateKey(s Signer) ([]byte, error) {
	var key any

	switch s := s.(type) {
	case *Ed25519Signer:
		key = s.priv
	case *RSASigner:
		key = s.priv
	case *Secp256k1Signer:
		return []byte("0x" + hex.EncodeToString(crypto.FromECDSA(s.priv))), nil
	default:
		return nil, fmt.Errorf("cannot export private key of %T", s)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pkcs8BlockType, Bytes: der}), nil
}

// LoadSigner reads a private key in the form written by MarshalPrivateKey.
func LoadSigner(keyID string, data []byte, opts ...Opt) (Signer, error) {
	data = bytes.TrimSpace(data)

	block, _ := pem.Decode(data)
	if block == nil {
		return NewSecp256k1Signer(keyID, string(data), opts...)
	}

	if block.Type != pkcs8BlockType {
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	switch priv := key.(type) {
	case ed25519.PrivateKey:
		return NewEd25519Signer(keyID, priv, opts...)
	case *rsa.PrivateKey:
		return rsaSignerFor(keyID, priv, opts)
	default:
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
}
