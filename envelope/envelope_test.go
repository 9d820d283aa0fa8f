package envelope

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/crypto"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/document"
	"github.com/pilacorp/go-did-envelope/envelope/instruction"
	"github.com/pilacorp/go-did-envelope/envelope/signer"
)

const (
	testDID  = "did:corda:tcn:77ccbf5e-4ddd-4092-b813-ac06084a3eb0"
	otherDID = "did:corda:tcn:0b2e3d1c-9f6a-4c7e-8d5b-1a2b3c4d5e6f"
)

func keyID(n int) string {
	return fmt.Sprintf("%s#keys-%d", testDID, n)
}

func newSigner(t *testing.T, suite model.Suite, id string, opts ...signer.Opt) signer.Signer {
	t.Helper()

	s, err := signer.Generate(suite, id, opts...)
	require.NoError(t, err)

	return s
}

// buildDocument renders a document with one key entry per signer. An empty id omits "id".
func buildDocument(t *testing.T, id string, kind keyencoding.Kind, signers ...signer.Signer) []byte {
	t.Helper()

	entries := make([]string, len(signers))
	for i, s := range signers {
		entry, err := signer.KeyEntry(s, testDID, kind)
		require.NoError(t, err)

		entries[i] = string(entry)
	}

	idMember := ""
	if id != "" {
		idMember = fmt.Sprintf(`"id": %q, `, id)
	}

	return []byte(fmt.Sprintf("{\"@context\": \"https://w3id.org/did/v1\", %s\"publicKey\": [%s]}",
		idMember, strings.Join(entries, ", ")))
}

func buildInstruction(t *testing.T, action model.Action, doc []byte, signers ...signer.Signer) []byte {
	t.Helper()

	entries, err := signer.SignDocument(doc, keyencoding.Base58, signers...)
	require.NoError(t, err)

	raw, err := instruction.New(action, entries...).Marshal()
	require.NoError(t, err)

	return raw
}

func mustParseDID(t *testing.T, s string) *did.LedgerDID {
	t.Helper()

	id, err := did.Parse(s)
	require.NoError(t, err)

	return id
}

func TestScenarioSingleEd25519Create(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	doc := buildDocument(t, testDID, keyencoding.Base58, s)
	instr := buildInstruction(t, model.ActionCreate, doc, s)

	keys, err := VerifyRaw(doc, instr, testDID, model.ActionCreate)
	require.NoError(t, err)
	assert.Equal(t, []string{keyID(1)}, keys.Sorted())
	assert.True(t, keys.Contains(keyID(1)))
	assert.Equal(t, 1, keys.Len())
}

func TestScenarioMissingAction(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	doc := buildDocument(t, testDID, keyencoding.Base58, s)
	instr := buildInstruction(t, "", doc, s)

	_, err := VerifyRaw(doc, instr, testDID, model.ActionCreate)
	assert.True(t, errors.Is(err, instruction.ErrMissingAction), "got %v", err)
	assert.Equal(t, ClassStructural, ClassOf(err))
}

func TestCaseVariantIDDoesNotPassIdentifierCheck(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	base := buildDocument(t, otherDID, keyencoding.Base58, s)

	// The signer endorses a document whose id is otherDID plus an "ID" member naming testDID.
	doc := []byte(strings.Replace(string(base), `"publicKey": [`, fmt.Sprintf(`"ID": %q, "publicKey": [`, testDID), 1))
	instr := buildInstruction(t, model.ActionCreate, doc, s)

	_, err := VerifyRaw(doc, instr, testDID, model.ActionCreate)
	require.True(t, errors.Is(err, ErrIdentifierMismatch), "got %v", err)

	keys, err := VerifyRaw(doc, instr, otherDID, model.ActionCreate)
	require.NoError(t, err)
	assert.Equal(t, []string{keyID(1)}, keys.Sorted())
}

func TestScenarioContentAlteredAfterSigning(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	signed := buildDocument(t, otherDID, keyencoding.Base58, s)
	instr := buildInstruction(t, model.ActionCreate, signed, s)

	// Same key, but the submitted document carries a different id than the signed one.
	submitted := []byte(strings.Replace(string(signed), otherDID, testDID, 1))

	_, err := VerifyRaw(submitted, instr, testDID, model.ActionCreate)
	require.True(t, errors.Is(err, ErrSignatureInvalid), "got %v", err)
	assert.True(t, errors.Is(err, crypto.ErrInvalidSignature))
	assert.Equal(t, ClassCrypto, ClassOf(err))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{keyID(1)}, verr.Failures())
}

func TestScenarioMultipleEncodings(t *testing.T) {
	doc := fmt.Sprintf(`{"id":%q,"publicKey":[{"id":%q,"type":"Ed25519VerificationKey2018","publicKeyBase58":"H3C2AVvLMv6gmMNam3uVAjZpfkcJCwDwnZn6z3wXmqPV","publicKeyHex":"0xef"}]}`, testDID, keyID(1))
	instr := `{"action":"create","signatures":[{"id":"` + keyID(1) + `","type":"Ed25519Signature2018","signatureBase58":"abc"}]}`

	_, err := VerifyRaw([]byte(doc), []byte(instr), testDID, model.ActionCreate)
	assert.True(t, errors.Is(err, keyencoding.ErrMultipleEncodingsPresent), "got %v", err)
	assert.True(t, errors.Is(err, document.ErrInvalidKeyEncoding))
	assert.Equal(t, "InvalidKeyEncoding", KindOf(err))
}

func TestScenarioDuplicateKeyID(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	doc := buildDocument(t, testDID, keyencoding.Base58, s, s)
	instr := buildInstruction(t, model.ActionCreate, doc, s)

	_, err := VerifyRaw(doc, instr, testDID, model.ActionCreate)
	assert.True(t, errors.Is(err, document.ErrDuplicateKeyID), "got %v", err)
}

func TestScenarioUpdateOldAndNewKey(t *testing.T) {
	oldKey := newSigner(t, model.SuiteEd25519, keyID(1))
	newKey := newSigner(t, model.SuiteEd25519, keyID(2))
	doc := buildDocument(t, testDID, keyencoding.Base58, oldKey, newKey)
	instr := buildInstruction(t, model.ActionUpdate, doc, oldKey, newKey)

	keys, err := VerifyRaw(doc, instr, testDID, model.ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, []string{keyID(1), keyID(2)}, keys.Sorted())
}

func TestVerifyPermitsUnsignedKeys(t *testing.T) {
	a := newSigner(t, model.SuiteEd25519, keyID(1))
	b := newSigner(t, model.SuiteEd25519, keyID(2))
	doc := buildDocument(t, testDID, keyencoding.Hex, a, b)
	instr := buildInstruction(t, model.ActionDelete, doc, b)

	keys, err := VerifyRaw(doc, instr, testDID, model.ActionDelete)
	require.NoError(t, err)
	assert.False(t, keys.Contains(keyID(1)))
	assert.True(t, keys.Contains(keyID(2)))
}

func TestVerifyMixedSuites(t *testing.T) {
	signers := []signer.Signer{
		newSigner(t, model.SuiteEd25519, keyID(1)),
		newSigner(t, model.SuiteRSA, keyID(2)),
		newSigner(t, model.SuiteRSA, keyID(3), signer.WithSignatureType(model.SignatureTypeRsaPssSignature2018)),
		newSigner(t, model.SuiteEcdsaSecp256k1, keyID(4)),
		newSigner(t, model.SuiteEcdsaSecp256k1, keyID(5), signer.WithSecp256k1Format(signer.DER)),
		newSigner(t, model.SuiteEd25519, keyID(6), signer.WithSignatureType(model.SignatureTypeEd25519Signature2020)),
	}

	for _, kind := range []keyencoding.Kind{keyencoding.Base58, keyencoding.Base64, keyencoding.Multibase, keyencoding.JWK} {
		t.Run(string(kind), func(t *testing.T) {
			doc := buildDocument(t, testDID, kind, signers...)
			instr := buildInstruction(t, model.ActionUpdate, doc, signers...)

			for _, parallelism := range []int{1, 3, 16} {
				keys, err := NewVerifier(WithParallelism(parallelism)).VerifyRaw(doc, instr, testDID, model.ActionUpdate)
				require.NoError(t, err)
				assert.Equal(t, len(signers), keys.Len())
			}
		})
	}
}

func TestVerifyReportsEveryFailureInInstructionOrder(t *testing.T) {
	signers := []signer.Signer{
		newSigner(t, model.SuiteEd25519, keyID(1)),
		newSigner(t, model.SuiteEcdsaSecp256k1, keyID(2)),
		newSigner(t, model.SuiteEd25519, keyID(3)),
		newSigner(t, model.SuiteEcdsaSecp256k1, keyID(4)),
	}

	doc := buildDocument(t, testDID, keyencoding.Base58, signers...)

	entries, err := signer.SignDocument(doc, keyencoding.Base64, signers...)
	require.NoError(t, err)

	// Break the signatures of keys 4 and 2 using the signature of another key of the same suite.
	wrongSigner := newSigner(t, model.SuiteEcdsaSecp256k1, keyID(9))
	wrong, err := wrongSigner.Sign(doc)
	require.NoError(t, err)

	entries[3].Value = wrong
	entries[1].Value = wrong

	instr, err := instruction.New(model.ActionUpdate, entries...).Marshal()
	require.NoError(t, err)

	for _, parallelism := range []int{1, 4} {
		_, err := NewVerifier(WithParallelism(parallelism)).VerifyRaw(doc, instr, testDID, model.ActionUpdate)

		var verr *Error
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Equal(t, KindSignatureInvalid, verr.Kind)
		assert.Equal(t, []string{keyID(2), keyID(4)}, verr.Failures())
	}
}

func TestVerifyGates(t *testing.T) {
	ed := newSigner(t, model.SuiteEd25519, keyID(1))
	secp := newSigner(t, model.SuiteEcdsaSecp256k1, keyID(2))
	stranger := newSigner(t, model.SuiteEd25519, keyID(3))

	doc := buildDocument(t, testDID, keyencoding.Base58, ed, secp)
	docWithoutID := buildDocument(t, "", keyencoding.Base58, ed, secp)

	wrongType, err := signer.Generate(model.SuiteEd25519, keyID(2))
	require.NoError(t, err)

	suiteMismatch := func(sigType string) []byte {
		entries, err := signer.SignDocument(doc, keyencoding.Base58, ed, secp)
		require.NoError(t, err)

		entries[1].SuiteHint = sigType

		raw, err := instruction.New(model.ActionUpdate, entries...).Marshal()
		require.NoError(t, err)

		return raw
	}

	tests := []struct {
		name        string
		doc         []byte
		instr       []byte
		identifier  string
		action      model.Action
		expectError error
		class       Class
	}{
		{
			name:        "Identifier mismatch",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionUpdate, doc, ed),
			identifier:  otherDID,
			action:      model.ActionUpdate,
			expectError: ErrIdentifierMismatch,
			class:       ClassAuthorization,
		},
		{
			name:        "Identifier mismatch wins over action mismatch",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionCreate, doc, ed),
			identifier:  otherDID,
			action:      model.ActionUpdate,
			expectError: ErrIdentifierMismatch,
			class:       ClassAuthorization,
		},
		{
			name:        "Missing document id",
			doc:         docWithoutID,
			instr:       buildInstruction(t, model.ActionCreate, docWithoutID, ed),
			identifier:  testDID,
			action:      model.ActionCreate,
			expectError: ErrMissingDocumentID,
			class:       ClassStructural,
		},
		{
			name:        "Action mismatch",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionCreate, doc, ed),
			identifier:  testDID,
			action:      model.ActionDelete,
			expectError: ErrActionMismatch,
			class:       ClassAuthorization,
		},
		{
			name:        "Unknown target key",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionUpdate, doc, ed, stranger),
			identifier:  testDID,
			action:      model.ActionUpdate,
			expectError: ErrUnknownTargetKey,
			class:       ClassStructural,
		},
		{
			name:        "Ed25519 signature type on a secp256k1 key",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionUpdate, doc, ed, wrongType),
			identifier:  testDID,
			action:      model.ActionUpdate,
			expectError: ErrSuiteMismatch,
			class:       ClassStructural,
		},
		{
			name:        "RSA signature type on a secp256k1 key",
			doc:         doc,
			instr:       suiteMismatch(model.SignatureTypeRsaSignature2018),
			identifier:  testDID,
			action:      model.ActionUpdate,
			expectError: ErrSuiteMismatch,
			class:       ClassStructural,
		},
		{
			name:        "Unknown signature type",
			doc:         doc,
			instr:       suiteMismatch("JsonWebSignature2020"),
			identifier:  testDID,
			action:      model.ActionUpdate,
			expectError: ErrSuiteMismatch,
			class:       ClassStructural,
		},
		{
			name:        "Missing signature type",
			doc:         doc,
			instr:       suiteMismatch(""),
			identifier:  testDID,
			action:      model.ActionUpdate,
			expectError: ErrSuiteMismatch,
			class:       ClassStructural,
		},
		{
			name:        "Malformed identifier",
			doc:         doc,
			instr:       buildInstruction(t, model.ActionUpdate, doc, ed),
			identifier:  "did:corda:TCN:77ccbf5e-4ddd-4092-b813-ac06084a3eb0",
			action:      model.ActionUpdate,
			expectError: did.ErrMalformed,
			class:       ClassIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := VerifyRaw(tt.doc, tt.instr, tt.identifier, tt.action)
			require.Error(t, err)
			assert.Equal(t, 0, keys.Len())
			assert.True(t, errors.Is(err, tt.expectError), "got %v", err)
			assert.Equal(t, tt.class, ClassOf(err))
		})
	}
}

func TestVerifyWrongKey(t *testing.T) {
	for _, suite := range []model.Suite{model.SuiteEd25519, model.SuiteRSA, model.SuiteEcdsaSecp256k1} {
		t.Run(string(suite), func(t *testing.T) {
			named := newSigner(t, suite, keyID(1))
			impostor := newSigner(t, suite, keyID(1))

			doc := buildDocument(t, testDID, keyencoding.Base64, named)
			instr := buildInstruction(t, model.ActionCreate, doc, impostor)

			_, err := VerifyRaw(doc, instr, testDID, model.ActionCreate)
			assert.True(t, errors.Is(err, ErrSignatureInvalid), "got %v", err)
		})
	}
}

func TestVerifyTamperDetection(t *testing.T) {
	s := newSigner(t, model.SuiteEd25519, keyID(1))
	doc := buildDocument(t, testDID, keyencoding.Base58, s)
	instrRaw := buildInstruction(t, model.ActionCreate, doc, s)

	instr, err := instruction.Parse(instrRaw)
	require.NoError(t, err)

	expected := mustParseDID(t, testDID)
	v := NewVerifier()

	var cryptoRejections int

	for i := range doc {
		tampered := append([]byte(nil), doc...)
		tampered[i] ^= 0x01

		parsed, err := document.Parse(tampered)
		if err != nil {
			continue
		}

		keys, err := v.Verify(&Envelope{Instruction: instr, Document: parsed}, expected, model.ActionCreate)
		require.Error(t, err, "mutation at offset %d verified", i)
		assert.Equal(t, 0, keys.Len())

		if errors.Is(err, ErrSignatureInvalid) {
			cryptoRejections++
		}
	}

	assert.Greater(t, cryptoRejections, 0)
}

func TestVerifyIsDeterministic(t *testing.T) {
	a := newSigner(t, model.SuiteEd25519, keyID(1))
	b := newSigner(t, model.SuiteEcdsaSecp256k1, keyID(2))
	doc := buildDocument(t, testDID, keyencoding.Base58, a, b)

	env, err := Open(doc, buildInstruction(t, model.ActionUpdate, doc, a, b))
	require.NoError(t, err)

	expected := mustParseDID(t, testDID)

	first, err1 := Verify(env, expected, model.ActionUpdate)
	second, err2 := Verify(env, expected, model.ActionUpdate)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)

	// Failures are just as stable.
	env.Instruction.Signatures[0].Value = env.Instruction.Signatures[0].Value[1:]

	_, err1 = Verify(env, expected, model.ActionUpdate)
	_, err2 = Verify(env, expected, model.ActionUpdate)
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestVerifyWithCustomRegistry(t *testing.T) {
	ed := newSigner(t, model.SuiteEd25519, keyID(1))
	secp := newSigner(t, model.SuiteEcdsaSecp256k1, keyID(2))
	doc := buildDocument(t, testDID, keyencoding.Base58, ed, secp)
	instr := buildInstruction(t, model.ActionUpdate, doc, ed, secp)

	edOnly := crypto.NewRegistry(crypto.NewEd25519Verifier(model.SignatureTypeEd25519Signature2018))

	_, err := NewVerifier(WithRegistry(edOnly)).VerifyRaw(doc, instr, testDID, model.ActionUpdate)
	assert.True(t, errors.Is(err, ErrSuiteMismatch), "got %v", err)

	keys, err := NewVerifier(WithRegistry(crypto.DefaultRegistry())).VerifyRaw(doc, instr, testDID, model.ActionUpdate)
	require.NoError(t, err)
	assert.Equal(t, 2, keys.Len())
}

func TestVerifyIncompleteInput(t *testing.T) {
	_, err := Verify(nil, mustParseDID(t, testDID), model.ActionCreate)
	assert.Error(t, err)
	assert.Equal(t, ClassUnknown, ClassOf(err))

	_, err = Verify(&Envelope{}, mustParseDID(t, testDID), model.ActionCreate)
	assert.Error(t, err)
}

func TestOpenReportsDocumentFirst(t *testing.T) {
	_, err := Open([]byte(`{`), nil)
	assert.True(t, errors.Is(err, document.ErrInvalidJSON), "got %v", err)

	s := newSigner(t, model.SuiteEd25519, keyID(1))

	_, err = Open(buildDocument(t, testDID, keyencoding.Base58, s), nil)
	assert.True(t, errors.Is(err, instruction.ErrEmptyInput), "got %v", err)
}

func TestKeySetJSON(t *testing.T) {
	b, err := newKeySet("b", "a").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))

	b, err = KeySet{}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestClassAndKindOfNetworkPolicy(t *testing.T) {
	err := did.NewNetworkPolicy("main").Check(mustParseDID(t, testDID))
	require.Error(t, err)

	assert.Equal(t, ClassAuthorization, ClassOf(err))
	assert.Equal(t, "NetworkNotAllowed", KindOf(err))

	_, err = did.Parse("did:web:example.com")
	assert.Equal(t, ClassIdentifier, ClassOf(err))
}

func TestClassAndKindOfForeignErrors(t *testing.T) {
	assert.Equal(t, ClassUnknown, ClassOf(nil))
	assert.Equal(t, ClassUnknown, ClassOf(errors.New("boom")))
	assert.Equal(t, "", KindOf(errors.New("boom")))
	assert.Equal(t, ClassStructural, ClassOf(fmt.Errorf("wrapped: %w", keyencoding.ErrDecodeError)))
	assert.Equal(t, "SignatureInvalid", KindOf(fmt.Errorf("wrapped: %w", &Error{Kind: KindSignatureInvalid})))
}
