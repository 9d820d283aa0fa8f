// Package envelope verifies that the signatures of a signing instruction authorize the exact
// bytes of a DID document.
//
// Verification is a pure function of its inputs. Structural checks (identifier, action, key
// coverage, suite compatibility) run before any cryptography and the first failing one is
// reported. Signature checks then run independently for every entry.
package envelope

import (
	"github.com/pilacorp/go-did-envelope/envelope/document"
	"github.com/pilacorp/go-did-envelope/envelope/instruction"
)

// Envelope pairs a signing instruction with the document it signs.
type Envelope struct {
	Instruction *instruction.Instruction
	Document    *document.Document
}

// Open parses a document and an instruction into an Envelope. Document errors are reported
// before instruction errors.
func Open(documentRaw, instructionRaw []byte) (*Envelope, error) {
	doc, err := document.Parse(documentRaw)
	if err != nil {
		return nil, err
	}

	instr, err := instruction.Parse(instructionRaw)
	if err != nil {
		return nil, err
	}

	return &Envelope{Instruction: instr, Document: doc}, nil
}
