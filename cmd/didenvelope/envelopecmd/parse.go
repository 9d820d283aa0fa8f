package envelopecmd

import (
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-envelope/did"
)

func (a *app) parseDIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-did <identifier>",
		Short: "Parse a did:corda identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := did.Parse(args[0])
			if err != nil {
				a.logger.Debug("identifier rejected", "input", args[0], "error", err)

				return a.writeFailure(err)
			}

			return a.writeJSON(map[string]string{
				"did":     id.String(),
				"network": id.Network(),
				"uuid":    id.UUID().String(),
			})
		},
	}
}
