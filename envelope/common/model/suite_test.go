package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuiteCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		keyType       string
		signatureType string
		compatible    bool
	}{
		{"Ed25519 2018", KeyTypeEd25519VerificationKey2018, SignatureTypeEd25519Signature2018, true},
		{"Ed25519 mixed years", KeyTypeEd25519VerificationKey2020, SignatureTypeEd25519Signature2018, true},
		{"RSA PKCS1", KeyTypeRsaVerificationKey2018, SignatureTypeRsaSignature2018, true},
		{"RSA PSS", KeyTypeRsaVerificationKey2018, SignatureTypeRsaPssSignature2018, true},
		{"secp256k1", KeyTypeEcdsaSecp256k1VerificationKey2019, SignatureTypeEcdsaSecp256k1Signature2019, true},
		{"Ed25519 key RSA signature", KeyTypeEd25519VerificationKey2018, SignatureTypeRsaSignature2018, false},
		{"secp256k1 key Ed25519 signature", KeyTypeEcdsaSecp256k1VerificationKey2019, SignatureTypeEd25519Signature2018, false},
		{"Unknown signature type", KeyTypeEd25519VerificationKey2018, "JsonWebSignature2020", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, ok := SuiteForKeyType(tt.keyType)
			assert.True(t, ok)
			assert.Equal(t, tt.compatible, suite.Compatible(tt.signatureType))
		})
	}

	_, ok := SuiteForKeyType("X25519KeyAgreementKey2019")
	assert.False(t, ok)
}

func TestDefaultKeyType(t *testing.T) {
	for _, s := range []Suite{SuiteEd25519, SuiteRSA, SuiteEcdsaSecp256k1} {
		got, ok := SuiteForKeyType(s.DefaultKeyType())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	assert.Empty(t, Suite("unknown").DefaultKeyType())
}

func TestActions(t *testing.T) {
	for _, a := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
		assert.True(t, a.Known())
		assert.True(t, a.RequiresDocumentID())
	}

	assert.False(t, Action("rotate").Known())
}
