// Command didenvelope parses identifiers, generates keys, signs and verifies DID envelopes.
package main

import (
	"log/slog"
	"os"

	"github.com/pilacorp/go-did-envelope/cmd/didenvelope/envelopecmd"
)

func main() {
	if err := envelopecmd.NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Error("didenvelope failed", "error", err)
		os.Exit(1)
	}
}
