package envelopecmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-envelope/did"
	"github.com/pilacorp/go-did-envelope/envelope/common/keyencoding"
	"github.com/pilacorp/go-did-envelope/envelope/common/model"
	"github.com/pilacorp/go-did-envelope/envelope/signer"
)

const (
	suiteFlagName  = "suite"
	suiteFlagUsage = "Key suite: ed25519, rsa, rsa-pss or secp256k1."

	encodingFlagName  = "encoding"
	encodingFlagUsage = "Public key encoding: base58, base64, hex, multibase, pem or jwk."

	keyIDFlagName  = "key-id"
	keyIDFlagUsage = "Key id, e.g. did:corda:tcn:<uuid>#keys-1."

	controllerFlagName  = "controller"
	controllerFlagUsage = "Controller written into the key entry. Defaults to the DID part of --key-id."

	privateKeyOutFlagName  = "private-key-out"
	privateKeyOutFlagUsage = "Write the private key to this file instead of printing it."
)

type suiteChoice struct {
	suite model.Suite
	opts  []signer.Opt
}

var suiteChoices = map[string]suiteChoice{
	"ed25519":   {suite: model.SuiteEd25519},
	"rsa":       {suite: model.SuiteRSA},
	"rsa-pss":   {suite: model.SuiteRSA, opts: []signer.Opt{signer.WithSignatureType(model.SignatureTypeRsaPssSignature2018)}},
	"secp256k1": {suite: model.SuiteEcdsaSecp256k1},
}

func parseEncoding(s string) (keyencoding.Kind, error) {
	for _, k := range keyencoding.Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}

	return "", fmt.Errorf("unknown encoding %q", s)
}

func (a *app) keygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key pair and print its document key entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			suiteName, _ := cmd.Flags().GetString(suiteFlagName)

			choice, ok := suiteChoices[strings.ToLower(suiteName)]
			if !ok {
				return fmt.Errorf("unknown suite %q", suiteName)
			}

			encodingName, _ := cmd.Flags().GetString(encodingFlagName)

			kind, err := parseEncoding(encodingName)
			if err != nil {
				return err
			}

			keyID, err := requiredString(cmd, keyIDFlagName)
			if err != nil {
				return err
			}

			didPart, _, err := did.SplitKeyID(keyID)
			if err != nil {
				return err
			}

			controller, _ := cmd.Flags().GetString(controllerFlagName)
			if controller == "" {
				controller = didPart
			}

			s, err := signer.Generate(choice.suite, keyID, choice.opts...)
			if err != nil {
				return err
			}

			entry, err := signer.KeyEntry(s, controller, kind)
			if err != nil {
				return err
			}

			priv, err := signer.MarshalPrivateKey(s)
			if err != nil {
				return err
			}

			out := map[string]any{"publicKey": entry}

			path, _ := cmd.Flags().GetString(privateKeyOutFlagName)
			if path != "" {
				if err := os.WriteFile(path, priv, 0o600); err != nil {
					return fmt.Errorf("failed to write private key: %w", err)
				}

				a.logger.Info("private key written", "path", path, "keyId", keyID)
			} else {
				out["privateKey"] = string(priv)
			}

			return a.writeJSON(out)
		},
	}

	cmd.Flags().String(suiteFlagName, "ed25519", suiteFlagUsage)
	cmd.Flags().String(encodingFlagName, "base58", encodingFlagUsage)
	cmd.Flags().String(keyIDFlagName, "", keyIDFlagUsage)
	cmd.Flags().String(controllerFlagName, "", controllerFlagUsage)
	cmd.Flags().String(privateKeyOutFlagName, "", privateKeyOutFlagUsage)

	return cmd
}
