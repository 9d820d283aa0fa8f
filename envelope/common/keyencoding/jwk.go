package keyencoding

import (
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

const algES256K = "ES256K"

// jwkAlgorithmSuites maps JWK "alg" values to suites for the suite hint.
var jwkAlgorithmSuites = map[string]model.Suite{
	string(jose.EdDSA): model.SuiteEd25519,
	string(jose.RS256): model.SuiteRSA,
	string(jose.PS256): model.SuiteRSA,
	algES256K:          model.SuiteEcdsaSecp256k1,
}

// DecodeJWK parses a JSON Web Key. Only octet sequence keys (kty "oct") are supported;
// the "k" octets are returned as the key bytes.
func DecodeJWK(raw []byte) ([]byte, model.Suite, error) {
	var key jose.JSONWebKey
	if err := key.UnmarshalJSON(raw); err != nil {
		return nil, "", fmt.Errorf("invalid JWK: %w", err)
	}

	octets, ok := key.Key.([]byte)
	if !ok {
		return nil, "", fmt.Errorf("unsupported JWK key type %T, only \"oct\" keys are accepted", key.Key)
	}

	if len(octets) == 0 {
		return nil, "", errors.New("JWK has no key octets")
	}

	return octets, jwkAlgorithmSuites[key.Algorithm], nil
}

// EncodeJWK encodes b as an "oct" JSON Web Key, optionally tagged with alg.
func EncodeJWK(b []byte, alg string) ([]byte, error) {
	key := jose.JSONWebKey{Key: b, Algorithm: alg}

	out, err := key.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JWK: %w", err)
	}

	return out, nil
}

// AlgorithmForSuite returns the JWK "alg" value used when encoding keys of suite s.
func AlgorithmForSuite(s model.Suite) string {
	switch s {
	case model.SuiteEd25519:
		return string(jose.EdDSA)
	case model.SuiteRSA:
		return string(jose.RS256)
	case model.SuiteEcdsaSecp256k1:
		return algES256K
	default:
		return ""
	}
}
