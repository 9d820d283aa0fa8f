package envelopecmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/did/config"
	"github.com/pilacorp/go-did-envelope/envelope"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
)

const (
	instructionFlagName  = "instruction"
	instructionFlagUsage = "Path of the signing instruction."

	didFlagName  = "did"
	didFlagUsage = "Identifier the envelope is expected to act on."

	parallelismFlagName  = "parallelism"
	parallelismFlagUsage = "Signatures verified at once." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvParallelism

	allowedNetworksFlagName  = "allowed-networks"
	allowedNetworksFlagUsage = "Comma separated networks accepted in --did. Empty allows any network." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvAllowedNetworks
)

type failure struct {
	Error    string   `json:"error"`
	Kind     string   `json:"kind,omitempty"`
	Class    string   `json:"class"`
	Failures []string `json:"failures,omitempty"`
}

// writeFailure prints err as JSON and returns it so the command exits non-zero.
func (a *app) writeFailure(err error) error {
	f := failure{
		Error: err.Error(),
		Kind:  envelope.KindOf(err),
		Class: string(envelope.ClassOf(err)),
	}

	var verr *envelope.Error
	if errors.As(err, &verr) {
		f.Failures = verr.Failures()
	}

	if werr := a.writeJSON(f); werr != nil {
		return werr
	}

	return err
}

func (a *app) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that an instruction authorizes a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readFileFlag(cmd, documentFlagName)
			if err != nil {
				return err
			}

			instr, err := readFileFlag(cmd, instructionFlagName)
			if err != nil {
				return err
			}

			identifier, err := requiredString(cmd, didFlagName)
			if err != nil {
				return err
			}

			action, err := requiredString(cmd, actionFlagName)
			if err != nil {
				return err
			}

			parallelism := config.Parallelism()
			if cmd.Flags().Changed(parallelismFlagName) {
				parallelism, _ = cmd.Flags().GetInt(parallelismFlagName)
			}

			networks := config.AllowedNetworks()
			if cmd.Flags().Changed(allowedNetworksFlagName) {
				networks, _ = cmd.Flags().GetStringSlice(allowedNetworksFlagName)
			}

			expected, err := did.Parse(identifier)
			if err != nil {
				return a.writeFailure(err)
			}

			if err := did.NewNetworkPolicy(networks...).Check(expected); err != nil {
				return a.writeFailure(err)
			}

			env, err := envelope.Open(doc, instr)
			if err != nil {
				return a.writeFailure(err)
			}

			verifier := envelope.NewVerifier(envelope.WithParallelism(parallelism))

			keys, err := verifier.Verify(env, expected, model.Action(action))
			if err != nil {
				a.logger.Warn("envelope rejected",
					"did", identifier,
					"action", action,
					"kind", envelope.KindOf(err),
					"class", envelope.ClassOf(err))

				return a.writeFailure(err)
			}

			a.logger.Info("envelope verified",
				"did", identifier,
				"action", action,
				"keys", keys.Len())

			return a.writeJSON(map[string]any{"verified": keys})
		},
	}

	cmd.Flags().String(documentFlagName, "", documentFlagUsage)
	cmd.Flags().String(instructionFlagName, "", instructionFlagUsage)
	cmd.Flags().String(didFlagName, "", didFlagUsage)
	cmd.Flags().String(actionFlagName, "", actionFlagUsage)
	cmd.Flags().Int(parallelismFlagName, config.DefaultParallelism, parallelismFlagUsage)
	cmd.Flags().StringSlice(allowedNetworksFlagName, nil, allowedNetworksFlagUsage)

	return cmd
}
