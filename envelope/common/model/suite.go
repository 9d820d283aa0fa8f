package model

// Suite is a crypto suite: a key type together with its signature algorithms.
type Suite string

// Supported suites.
const (
	SuiteEd25519        Suite = "Ed25519"
	SuiteRSA            Suite = "RSA"
	SuiteEcdsaSecp256k1 Suite = "EcdsaSecp256k1"
)

// Key types as they appear in the "type" field of a publicKey entry.
const (
	KeyTypeEd25519VerificationKey2018        = "Ed25519VerificationKey2018"
	KeyTypeEd25519VerificationKey2020        = "Ed25519VerificationKey2020"
	KeyTypeRsaVerificationKey2018            = "RsaVerificationKey2018"
	KeyTypeEcdsaSecp256k1VerificationKey2019 = "EcdsaSecp256k1VerificationKey2019"
)

// Signature types as they appear in the "type" field of an instruction signature.
const (
	SignatureTypeEd25519Signature2018        = "Ed25519Signature2018"
	SignatureTypeEd25519Signature2020        = "Ed25519Signature2020"
	SignatureTypeRsaSignature2018            = "RsaSignature2018"
	SignatureTypeRsaPssSignature2018         = "RsaSignaturePss2018"
	SignatureTypeEcdsaSecp256k1Signature2019 = "EcdsaSecp256k1Signature2019"
)

var keyTypeSuites = map[string]Suite{
	KeyTypeEd25519VerificationKey2018:        SuiteEd25519,
	KeyTypeEd25519VerificationKey2020:        SuiteEd25519,
	KeyTypeRsaVerificationKey2018:            SuiteRSA,
	KeyTypeEcdsaSecp256k1VerificationKey2019: SuiteEcdsaSecp256k1,
}

var signatureTypeSuites = map[string]Suite{
	SignatureTypeEd25519Signature2018:        SuiteEd25519,
	SignatureTypeEd25519Signature2020:        SuiteEd25519,
	SignatureTypeRsaSignature2018:            SuiteRSA,
	SignatureTypeRsaPssSignature2018:         SuiteRSA,
	SignatureTypeEcdsaSecp256k1Signature2019: SuiteEcdsaSecp256k1,
}

// SuiteForKeyType returns the suite of a publicKey "type".
func SuiteForKeyType(keyType string) (Suite, bool) {
	s, ok := keyTypeSuites[keyType]

	return s, ok
}

// SuiteForSignatureType returns the suite of a signature "type".
func SuiteForSignatureType(signatureType string) (Suite, bool) {
	s, ok := signatureTypeSuites[signatureType]

	return s, ok
}

// Compatible reports whether a signature of the given type may be checked against a key of suite s.
func (s Suite) Compatible(signatureType string) bool {
	sigSuite, ok := signatureTypeSuites[signatureType]

	return ok && sigSuite == s
}

// DefaultKeyType returns the key type written by producers for the suite.
func (s Suite) DefaultKeyType() string {
	switch s {
	case SuiteEd25519:
		return KeyTypeEd25519VerificationKey2018
	case SuiteRSA:
		return KeyTypeRsaVerificationKey2018
	case SuiteEcdsaSecp256k1:
		return KeyTypeEcdsaSecp256k1VerificationKey2019
	default:
		return ""
	}
}

func (s Suite) String() string {
	return string(s)
}
