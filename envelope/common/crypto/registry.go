// Package crypto verifies instruction signatures against document keys.
//
// Verifiers are looked up by signature type in a Registry. Registries are immutable once built;
// DefaultRegistry holds every suite the envelope format defines.
package crypto

import (
	gocrypto "crypto"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// ErrInvalidSignature is returned (wrapped) by every verifier when the cryptographic check fails.
var ErrInvalidSignature = errors.New("invalid signature")

// SignatureVerifier checks one signature type.
type SignatureVerifier interface {
	// SignatureType is the instruction "type" value handled by the verifier.
	SignatureType() string
	// Suite is the key suite the verifier accepts.
	Suite() model.Suite
	// Verify checks signature over msg. pubKey is a value returned by ParsePublicKey.
	Verify(pubKey gocrypto.PublicKey, msg, signature []byte) error
}

// Registry maps signature types to verifiers.
type Registry struct {
	verifiers map[string]SignatureVerifier
}

// NewRegistry creates a registry from verifiers. A later verifier replaces an earlier one
// with the same signature type.
func NewRegistry(verifiers ...SignatureVerifier) *Registry {
	r := &Registry{verifiers: make(map[string]SignatureVerifier, len(verifiers))}
	for _, v := range verifiers {
		r.verifiers[v.SignatureType()] = v
	}

	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(
		NewEd25519Verifier(model.SignatureTypeEd25519Signature2018),
		NewEd25519Verifier(model.SignatureTypeEd25519Signature2020),
		NewRSAVerifier(model.SignatureTypeRsaSignature2018),
		NewRSAPSSVerifier(model.SignatureTypeRsaPssSignature2018),
		NewSecp256k1Verifier(model.SignatureTypeEcdsaSecp256k1Signature2019),
	)
})

// DefaultRegistry returns the process-wide registry. It is created on first use and never changes.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Lookup returns the verifier for a signature type.
func (r *Registry) Lookup(signatureType string) (SignatureVerifier, bool) {
	if r == nil {
		return nil, false
	}

	v, ok := r.verifiers[signatureType]

	return v, ok
}

// SignatureTypes returns the registered signature types, sorted.
func (r *Registry) SignatureTypes() []string {
	types := make([]string, 0, len(r.verifiers))
	for t := range r.verifiers {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// Verify parses raw key bytes for the verifier's suite and checks signature over msg.
func (r *Registry) Verify(signatureType string, rawKey, msg, signature []byte) error {
	v, ok := r.Lookup(signatureType)
	if !ok {
		return fmt.Errorf("no verifier for signature type %q", signatureType)
	}

	pubKey, err := ParsePublicKey(v.Suite(), rawKey)
	if err != nil {
		return err
	}

	return v.Verify(pubKey, msg, signature)
}
