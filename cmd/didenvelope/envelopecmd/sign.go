package envelopecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-envelope/did/config"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/instruction"
	"github.com/pilacorp/go-did-envelope/envelope/signer"
)

const (
	documentFlagName  = "document"
	documentFlagUsage = "Path of the DID document."

	keyFlagName  = "key"
	keyFlagUsage = "Path of a private key written by keygen. Repeat together with --key-id for several signers."

	signKeyIDFlagUsage = "Key id targeted by the matching --key."

	actionFlagName  = "action"
	actionFlagUsage = "Instruction action: create, update or delete."

	signatureTypeFlagName  = "signature-type"
	signatureTypeFlagUsage = "Override the signature type of every signer."

	signatureEncodingFlagName  = "signature-encoding"
	signatureEncodingFlagUsage = "Signature value encoding: base58 or base64. Default: " + config.DefaultSignatureEncoding + "." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvSignatureEncoding
)

func (a *app) signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign the exact bytes of a document and print the instruction",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readFileFlag(cmd, documentFlagName)
			if err != nil {
				return err
			}

			action, err := requiredString(cmd, actionFlagName)
			if err != nil {
				return err
			}

			keyPaths, _ := cmd.Flags().GetStringSlice(keyFlagName)
			keyIDs, _ := cmd.Flags().GetStringSlice(keyIDFlagName)

			if len(keyPaths) == 0 || len(keyPaths) != len(keyIDs) {
				return fmt.Errorf("--%s and --%s must be given the same number of times", keyFlagName, keyIDFlagName)
			}

			var opts []signer.Opt
			if t, _ := cmd.Flags().GetString(signatureTypeFlagName); t != "" {
				opts = append(opts, signer.WithSignatureType(t))
			}

			signers := make([]signer.Signer, len(keyPaths))

			for i, path := range keyPaths {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read key: %w", err)
				}

				signers[i], err = signer.LoadSigner(keyIDs[i], data, opts...)
				if err != nil {
					return fmt.Errorf("failed to load key %s: %w", path, err)
				}
			}

			encoding, err := getUserSetVar(cmd, signatureEncodingFlagName, config.EnvSignatureEncoding, true)
			if err != nil {
				return err
			}

			entries, err := signer.SignDocument(doc, config.ParseSignatureEncoding(encoding), signers...)
			if err != nil {
				return err
			}

			raw, err := instruction.New(model.Action(action), entries...).Marshal()
			if err != nil {
				return err
			}

			a.logger.Debug("document signed", "signatures", len(entries), "action", action)

			if _, err := a.stdout.Write(append(raw, '\n')); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().String(documentFlagName, "", documentFlagUsage)
	cmd.Flags().StringSlice(keyFlagName, nil, keyFlagUsage)
	cmd.Flags().StringSlice(keyIDFlagName, nil, signKeyIDFlagUsage)
	cmd.Flags().String(actionFlagName, "", actionFlagUsage)
	cmd.Flags().String(signatureTypeFlagName, "", signatureTypeFlagUsage)
	cmd.Flags().String(signatureEncodingFlagName, "", signatureEncodingFlagUsage)

	return cmd
}
