package envelope

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/crypto"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/document"
)

// Verifier checks envelopes. It holds no per-call state and is safe for concurrent use.
type Verifier struct {
	registry    *crypto.Registry
	parallelism int
}

// Opt configures a Verifier.
type Opt func(v *Verifier)

// WithRegistry sets the signature verifiers. The default is crypto.DefaultRegistry().
func WithRegistry(r *crypto.Registry) Opt {
	return func(v *Verifier) {
		v.registry = r
	}
}

// WithParallelism bounds the number of signatures checked at once. Values below 1 mean 1.
func WithParallelism(n int) Opt {
	return func(v *Verifier) {
		v.parallelism = n
	}
}

// NewVerifier creates a Verifier.
func NewVerifier(opts ...Opt) *Verifier {
	v := &Verifier{
		registry:    crypto.DefaultRegistry(),
		parallelism: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.parallelism < 1 {
		v.parallelism = 1
	}

	return v
}

type check struct {
	keyID    string
	key      *document.PublicKeyMaterial
	verifier crypto.SignatureVerifier
	value    []byte
}

// Verify checks that env authorizes action on the expected identifier and returns the key ids
// whose signatures verified. Keys of the document that no signature targets are allowed; callers
// decide how much coverage an action needs.
func (v *Verifier) Verify(env *Envelope, expected *did.LedgerDID, action model.Action) (KeySet, error) {
	if env == nil || env.Document == nil || env.Instruction == nil {
		return KeySet{}, errors.New("envelope: incomplete envelope")
	}

	if expected == nil {
		return KeySet{}, errors.New("envelope: expected identifier is nil")
	}

	doc, instr := env.Document, env.Instruction

	switch {
	case doc.ID != nil && !doc.ID.Equal(expected):
		return KeySet{}, &Error{Kind: KindIdentifierMismatch, Expected: expected.String(), Found: doc.ID.String()}
	case doc.ID == nil && action.RequiresDocumentID():
		return KeySet{}, &Error{Kind: KindMissingDocumentID, Expected: expected.String()}
	}

	if instr.Action != action {
		return KeySet{}, &Error{Kind: KindActionMismatch, Expected: string(action), Found: string(instr.Action)}
	}

	checks := make([]check, len(instr.Signatures))

	for i, sig := range instr.Signatures {
		key, ok := doc.Key(sig.TargetKeyID)
		if !ok {
			return KeySet{}, &Error{Kind: KindUnknownTargetKey, KeyID: sig.TargetKeyID}
		}

		checks[i] = check{keyID: sig.TargetKeyID, key: key, value: sig.Value}
	}

	for i, sig := range instr.Signatures {
		key := checks[i].key

		sv, ok := v.registry.Lookup(sig.SuiteHint)
		if !ok || !key.Suite.Compatible(sig.SuiteHint) || sv.Suite() != key.Suite {
			return KeySet{}, &Error{
				Kind:     KindSuiteMismatch,
				KeyID:    sig.TargetKeyID,
				Expected: string(key.Suite),
				Found:    sig.SuiteHint,
			}
		}

		checks[i].verifier = sv
	}

	results := v.run(doc.Raw(), checks)

	var (
		failures []string
		causes   []error
	)

	for i, err := range results {
		if err != nil {
			failures = append(failures, checks[i].keyID)
			causes = append(causes, fmt.Errorf("%s: %w", checks[i].keyID, err))
		}
	}

	if len(failures) > 0 {
		return KeySet{}, &Error{Kind: KindSignatureInvalid, Err: errors.Join(causes...), failures: failures}
	}

	return newKeySet(instr.TargetKeyIDs()...), nil
}

// run checks every signature; results are indexed like checks.
func (v *Verifier) run(msg []byte, checks []check) []error {
	results := make([]error, len(checks))

	var g errgroup.Group
	g.SetLimit(v.parallelism)

	for i, c := range checks {
		g.Go(func() error {
			results[i] = verifyOne(msg, c)

			return nil
		})
	}

	_ = g.Wait()

	return results
}

func verifyOne(msg []byte, c check) error {
	pub := c.key.PublicKey
	if pub == nil {
		var err error

		pub, err = crypto.ParsePublicKey(c.key.Suite, c.key.Bytes)
		if err != nil {
			return err
		}
	}

	return c.verifier.Verify(pub, msg, c.value)
}

// VerifyRaw parses the identifier, document and instruction and verifies them. Parse errors are
// returned unchanged.
func (v *Verifier) VerifyRaw(documentRaw, instructionRaw []byte, identifier string, action model.Action) (KeySet, error) {
	expected, err := did.Parse(identifier)
	if err != nil {
		return KeySet{}, err
	}

	env, err := Open(documentRaw, instructionRaw)
	if err != nil {
		return KeySet{}, err
	}

	return v.Verify(env, expected, action)
}

// Verify checks env with a default Verifier.
func Verify(env *Envelope, expected *did.LedgerDID, action model.Action) (KeySet, error) {
	return NewVerifier().Verify(env, expected, action)
}

// VerifyRaw verifies raw inputs with a default Verifier.
func VerifyRaw(documentRaw, instructionRaw []byte, identifier string, action model.Action) (KeySet, error) {
	return NewVerifier().VerifyRaw(documentRaw, instructionRaw, identifier, action)
}
