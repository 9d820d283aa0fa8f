package crypto

import (
	gocrypto "crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// RSAVerifier verifies RSA signatures over the SHA-256 digest of the message,
// with PKCS#1 v1.5 or PSS padding.
type RSAVerifier struct {
	signatureType string
	pss           bool
}

// NewRSAVerifier creates a PKCS#1 v1.5 verifier.
func NewRSAVerifier(signatureType string) *RSAVerifier {
	return &RSAVerifier{signatureType: signatureType}
}

// NewRSAPSSVerifier creates a PSS verifier. Any salt length is accepted.
func NewRSAPSSVerifier(signatureType string) *RSAVerifier {
	return &RSAVerifier{signatureType: signatureType, pss: true}
}

func (v *RSAVerifier) SignatureType() string { return v.signatureType }

func (v *RSAVerifier) Suite() model.Suite { return model.SuiteRSA }

// Verify verifies the signature.
func (v *RSAVerifier) Verify(pubKey gocrypto.PublicKey, msg, signature []byte) error {
	key, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("rsa: unexpected public key type %T", pubKey)
	}

	hashed := sha256.Sum256(msg)

	var err error
	if v.pss {
		err = rsa.VerifyPSS(key, gocrypto.SHA256, hashed[:], signature, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto})
	} else {
		err = rsa.VerifyPKCS1v15(key, gocrypto.SHA256, hashed[:], signature)
	}

	if err != nil {
		return fmt.Errorf("rsa: %w", ErrInvalidSignature)
	}

	return nil
}
