// Package envelopecmd holds the cobra commands of the didenvelope tool.
package envelopecmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-envelope/did/config"
)

const (
	logLevelFlagName  = "log-level"
	logLevelFlagUsage = "Logging level: debug, info, warn or error. Default: " + config.DefaultLogLevel + "." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvLogLevel
)

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// NewRootCmd creates the didenvelope command tree writing results to stdout and logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	rootCmd := &cobra.Command{
		Use:           "didenvelope",
		Short:         "Parse, sign and verify did:corda envelopes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := getUserSetVar(cmd, logLevelFlagName, config.EnvLogLevel, true)
			if err != nil {
				return err
			}

			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(level)}))
			slog.SetDefault(a.logger)

			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().String(logLevelFlagName, "", logLevelFlagUsage)

	rootCmd.AddCommand(
		a.parseDIDCmd(),
		a.keygenCmd(),
		a.signCmd(),
		a.verifyCmd(),
	)

	return rootCmd
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func getUserSetVar(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %w", err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		return value, nil
	}

	return "", fmt.Errorf("neither %s (command line flag) nor %s (environment variable) have been set", flagName, envKey)
}

func requiredString(cmd *cobra.Command, flagName string) (string, error) {
	value, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return "", err
	}

	if value == "" {
		return "", fmt.Errorf("--%s is required", flagName)
	}

	return value, nil
}

func readFileFlag(cmd *cobra.Command, flagName string) ([]byte, error) {
	path, err := requiredString(cmd, flagName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", flagName, err)
	}

	return data, nil
}
