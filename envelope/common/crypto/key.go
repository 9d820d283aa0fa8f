package crypto

import (
	gocrypto "crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidCurveSecp256k1 = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// subjectPublicKeyInfo is the RFC 5280 structure. crypto/x509 does not know secp256k1.
type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// ParsePublicKey turns decoded key bytes into a public key of the given suite.
//
// Ed25519 keys are 32 raw bytes or a PKIX SubjectPublicKeyInfo. RSA keys are PKCS#1 or PKIX.
// secp256k1 keys are a compressed or uncompressed SEC1 point, or a PKIX structure carrying one.
// The result is an ed25519.PublicKey, *rsa.PublicKey or *secp256k1.PublicKey.
func ParsePublicKey(suite model.Suite, raw []byte) (gocrypto.PublicKey, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty public key")
	}

	switch suite {
	case model.SuiteEd25519:
		return parseEd25519(raw)
	case model.SuiteRSA:
		return parseRSA(raw)
	case model.SuiteEcdsaSecp256k1:
		return parseSecp256k1(raw)
	default:
		return nil, fmt.Errorf("unsupported suite %q", suite)
	}
}

func parseEd25519(raw []byte) (ed25519.PublicKey, error) {
	if len(raw) == ed25519.PublicKeySize {
		return ed25519.PublicKey(append([]byte(nil), raw...)), nil
	}

	key, err := x509.ParsePKIXPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("ed25519: key must be %d bytes or PKIX, got %d bytes", ed25519.PublicKeySize, len(raw))
	}

	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("ed25519: PKIX key is %T", key)
	}

	return pub, nil
}

func parseRSA(raw []byte) (*rsa.PublicKey, error) {
	if pub, err := x509.ParsePKCS1PublicKey(raw); err == nil {
		return pub, nil
	}

	key, err := x509.ParsePKIXPublicKey(raw)
	if err != nil {
		return nil, errors.New("rsa: key is neither PKCS#1 nor PKIX")
	}

	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("rsa: PKIX key is %T", key)
	}

	return pub, nil
}

func parseSecp256k1(raw []byte) (*secp256k1.PublicKey, error) {
	point := raw

	// A DER SEQUENCE tag cannot start a SEC1 point (0x02, 0x03, 0x04).
	if raw[0] == 0x30 {
		var spki subjectPublicKeyInfo

		rest, err := asn1.Unmarshal(raw, &spki)
		if err != nil || len(rest) != 0 {
			return nil, errors.New("secp256k1: invalid PKIX structure")
		}

		if !spki.Algorithm.Algorithm.Equal(oidPublicKeyECDSA) {
			return nil, fmt.Errorf("secp256k1: unexpected algorithm %s", spki.Algorithm.Algorithm)
		}

		var curve asn1.ObjectIdentifier
		if _, err := asn1.Unmarshal(spki.Algorithm.Parameters.FullBytes, &curve); err != nil || !curve.Equal(oidCurveSecp256k1) {
			return nil, errors.New("secp256k1: PKIX key is not on secp256k1")
		}

		point = spki.PublicKey.RightAlign()
	}

	pub, err := secp256k1.ParsePubKey(point)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: %w", err)
	}

	return pub, nil
}

// MarshalPKIXSecp256k1 encodes a secp256k1 key as a PKIX SubjectPublicKeyInfo.
func MarshalPKIXSecp256k1(pub *secp256k1.PublicKey) ([]byte, error) {
	params, err := asn1.Marshal(oidCurveSecp256k1)
	if err != nil {
		return nil, err
	}

	point := pub.SerializeUncompressed()

	return asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidPublicKeyECDSA,
			Parameters: asn1.RawValue{FullBytes: params},
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: 8 * len(point)},
	})
}
