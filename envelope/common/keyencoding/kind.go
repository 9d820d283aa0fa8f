// Package keyencoding decodes the public key material of a DID document key entry.
//
// A key entry carries exactly one of the fields publicKeyBase58, publicKeyBase64,
// publicKeyHex, publicKeyMultibase, publicKeyPem or publicKeyJwk. Decode selects that
// field in a single validating step and returns the raw key bytes.
package keyencoding

// Kind is one of the supported textual key encodings.
type Kind string

// Supported encodings.
const (
	Base58    Kind = "Base58"
	Base64    Kind = "Base64"
	Hex       Kind = "Hex"
	Multibase Kind = "Multibase"
	PEM       Kind = "Pem"
	JWK       Kind = "Jwk"
)

// FieldPrefix is shared by every key material field name. Fields with this prefix that are
// not in the recognized set are rejected.
const FieldPrefix = "publicKey"

// Kinds lists the supported encodings in a stable order.
var Kinds = []Kind{Base58, Base64, Hex, Multibase, PEM, JWK}

// FieldName returns the JSON field name carrying this encoding, e.g. "publicKeyBase58".
func (k Kind) FieldName() string {
	return FieldPrefix + string(k)
}

// KindForField returns the encoding carried by a recognized field name.
func KindForField(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.FieldName() == name {
			return k, true
		}
	}

	return "", false
}

func (k Kind) String() string {
	return string(k)
}
