// Package did parses the external form of ledger-scoped decentralized identifiers.
//
// The only accepted method is corda:
//
//	did:corda:<network>:<uuid>
//
// where <network> matches [a-z]+(-[a-z]+)* and <uuid> is the canonical lowercase
// 8-4-4-4-12 hex form. Parsing is purely syntactic.
package did

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// Scheme is the URI scheme of every identifier.
	Scheme = "did"
	// Method is the only DID method accepted by Parse.
	Method = "corda"
)

var methodSpecificID = regexp.MustCompile(
	`^corda:([a-z]+(?:-[a-z]+)*):([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// LedgerDID is a parsed did:corda identifier. The zero value is not a valid identifier;
// values are only produced by Parse and New.
type LedgerDID struct {
	uri     string
	network string
	id      uuid.UUID
}

// Parse parses the external form of an identifier. It returns either a fully populated
// *LedgerDID or an *Error, never both.
func Parse(external string) (*LedgerDID, error) {
	scheme, rest, found := strings.Cut(external, ":")
	if !found || scheme != Scheme {
		if !found {
			scheme = ""
		}

		return nil, newError(KindInvalidScheme, external, fmt.Sprintf("found scheme %q", scheme), nil)
	}

	m := methodSpecificID.FindStringSubmatch(rest)
	if m == nil {
		return nil, newError(KindMalformed, external,
			"expected corda:<network>:<uuid> with a lowercase canonical uuid", nil)
	}

	id, err := uuid.Parse(m[2])
	if err != nil {
		return nil, newError(KindInvalidUUID, external, "", err)
	}

	if id.String() != m[2] {
		return nil, newError(KindInvalidUUID, external, "uuid is not in canonical form", nil)
	}

	return &LedgerDID{uri: external, network: m[1], id: id}, nil
}

// New builds an identifier for the given network and uuid. The result is validated
// with Parse, so an invalid network name is reported as a Malformed error.
func New(network string, id uuid.UUID) (*LedgerDID, error) {
	return Parse(fmt.Sprintf("%s:%s:%s:%s", Scheme, Method, network, id.String()))
}

// URI returns the full external form.
func (d *LedgerDID) URI() string {
	return d.uri
}

// Network returns the ledger network tag.
func (d *LedgerDID) Network() string {
	return d.network
}

// UUID returns the identifier's uuid.
func (d *LedgerDID) UUID() uuid.UUID {
	return d.id
}

func (d *LedgerDID) String() string {
	return d.uri
}

// Equal reports whether both identifiers have the same external form.
func (d *LedgerDID) Equal(other *LedgerDID) bool {
	if d == nil || other == nil {
		return d == other
	}

	return d.uri == other.uri
}

// KeyID returns the fragment-qualified key id "<did>#<fragment>".
func (d *LedgerDID) KeyID(fragment string) string {
	return d.uri + "#" + fragment
}

// MarshalText implements encoding.TextMarshaler.
func (d *LedgerDID) MarshalText() ([]byte, error) {
	return []byte(d.uri), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text goes through Parse.
func (d *LedgerDID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*d = *parsed

	return nil
}

// SplitKeyID splits a fragment-qualified key id into its DID part and fragment.
// Relative ids such as "#keys-1" return an empty DID part.
func SplitKeyID(keyID string) (string, string, error) {
	didPart, fragment, found := strings.Cut(keyID, "#")
	if !found || fragment == "" {
		return "", "", newError(KindInvalidKeyID, keyID, "key id must carry a non-empty fragment", nil)
	}

	if didPart != "" && !strings.HasPrefix(didPart, Scheme+":") {
		return "", "", newError(KindInvalidKeyID, keyID, "key id must be relative or start with 'did:'", nil)
	}

	return didPart, fragment, nil
}
