package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// RSASigner signs the SHA-256 digest of the payload with PKCS#1 v1.5 or PSS padding.
type RSASigner struct {
	keyID         string
	signatureType string
	pss           bool
	priv          *rsa.PrivateKey
}

// NewRSASigner creates a PKCS#1 v1.5 signer (RsaSignature2018).
func NewRSASigner(keyID string, priv *rsa.PrivateKey, opts ...Opt) (Signer, error) {
	return newRSASigner(keyID, priv, false, applyOptions(model.SignatureTypeRsaSignature2018, opts))
}

// NewRSAPSSSigner creates a PSS signer (RsaSignaturePss2018). The salt is as long as the digest.
func NewRSAPSSSigner(keyID string, priv *rsa.PrivateKey, opts ...Opt) (Signer, error) {
	return newRSASigner(keyID, priv, true, applyOptions(model.SignatureTypeRsaPssSignature2018, opts))
}

func newRSASigner(keyID string, priv *rsa.PrivateKey, pss bool, o *signerOptions) (Signer, error) {
	if priv == nil {
		return nil, fmt.Errorf("rsa private key is nil")
	}

	return &RSASigner{keyID: keyID, signatureType: o.signatureType, pss: pss, priv: priv}, nil
}

func (s *RSASigner) Sign(payload []byte) ([]byte, error) {
	hashed := sha256.Sum256(payload)

	var (
		sig []byte
		err error
	)

	if s.pss {
		sig, err = rsa.SignPSS(rand.Reader, s.priv, crypto.SHA256, hashed[:], &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
	} else {
		sig, err = rsa.SignPKCS1v15(rand.Reader, s.priv, crypto.SHA256, hashed[:])
	}

	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	return sig, nil
}

func (s *RSASigner) KeyID() string         { return s.keyID }
func (s *RSASigner) SignatureType() string { return s.signatureType }
func (s *RSASigner) Suite() model.Suite    { return model.SuiteRSA }

// PublicKeyBytes returns the PKIX DER encoding of the public key.
func (s *RSASigner) PublicKeyBytes() ([]byte, error) {
	return x509.MarshalPKIXPublicKey(&s.priv.PublicKey)
}
