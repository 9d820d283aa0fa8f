package instruction

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

// New starts an instruction for action.
func New(action model.Action, entries ...SignatureEntry) *Instruction {
	return &Instruction{Action: action, Signatures: entries}
}

// With appends signature entries and returns the instruction.
func (i *Instruction) With(entries ...SignatureEntry) *Instruction {
	i.Signatures = append(i.Signatures, entries...)

	return i
}

// Marshal renders the wire form of the instruction. Entries without an Encoding use base58.
func (i *Instruction) Marshal() ([]byte, error) {
	wire := wireInstruction{Signatures: make([]wireSignature, 0, len(i.Signatures))}

	if i.Action != "" {
		action := string(i.Action)
		wire.Action = &action
	}

	for n, s := range i.Signatures {
		ws := wireSignature{ID: s.TargetKeyID, Type: s.SuiteHint}

		switch s.Encoding {
		case keyencoding.Base58, "":
			v := keyencoding.EncodeBase58(s.Value)
			ws.SignatureBase58 = &v
		case keyencoding.Base64:
			v := keyencoding.EncodeBase64(s.Value)
			ws.SignatureBase64 = &v
		default:
			return nil, fmt.Errorf("failed to marshal signatures[%d]: unsupported signature encoding %s", n, s.Encoding)
		}

		wire.Signatures = append(wire.Signatures, ws)
	}

	out, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instruction: %w", err)
	}

	return out, nil
}
