package crypto

import (
	"bytes"
	gocrypto "crypto"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

const (
	compactSignatureSize     = 64
	recoverableSignatureSize = 65
)

// Secp256k1Verifier verifies ECDSA secp256k1 signatures over the SHA-256 digest of the message.
//
// Signatures are accepted as 64-byte r||s, 65-byte r||s||v or ASN.1 DER. S must be in the lower
// half of the curve order.
type Secp256k1Verifier struct {
	signatureType string
}

// NewSecp256k1Verifier creates a Secp256k1Verifier for the given signature type.
func NewSecp256k1Verifier(signatureType string) *Secp256k1Verifier {
	return &Secp256k1Verifier{signatureType: signatureType}
}

func (v *Secp256k1Verifier) SignatureType() string { return v.signatureType }

func (v *Secp256k1Verifier) Suite() model.Suite { return model.SuiteEcdsaSecp256k1 }

// Verify verifies the signature.
func (v *Secp256k1Verifier) Verify(pubKey gocrypto.PublicKey, msg, signature []byte) error {
	key, ok := pubKey.(*secp256k1.PublicKey)
	if !ok {
		return fmt.Errorf("secp256k1: unexpected public key type %T", pubKey)
	}

	hash := sha256.Sum256(msg)

	var verified bool

	switch len(signature) {
	case compactSignatureSize:
		verified = ethcrypto.VerifySignature(key.SerializeCompressed(), hash[:], signature)
	case recoverableSignatureSize:
		verified = verifyRecoverable(key, hash[:], signature)
	default:
		verified = verifyDER(key, hash[:], signature)
	}

	if !verified {
		return fmt.Errorf("secp256k1: %w", ErrInvalidSignature)
	}

	return nil
}

// verifyRecoverable checks r||s and that the recovery id yields the same key.
func verifyRecoverable(key *secp256k1.PublicKey, hash, signature []byte) bool {
	if !ethcrypto.VerifySignature(key.SerializeCompressed(), hash, signature[:compactSignatureSize]) {
		return false
	}

	sig := append([]byte(nil), signature...)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	recovered, err := ethcrypto.Ecrecover(hash, sig)
	if err != nil {
		return false
	}

	return bytes.Equal(recovered, key.SerializeUncompressed())
}

func verifyDER(key *secp256k1.PublicKey, hash, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}

	// Same low-S rule as the compact forms.
	s := sig.S()
	if s.IsOverHalfOrder() {
		return false
	}

	return sig.Verify(hash, key)
}
