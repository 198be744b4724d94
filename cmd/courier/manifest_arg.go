package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"courier/internal/manifest"
)

// readManifest resolves the manifest argument: inline JSON, "-" for
// stdin, or a file path.
func readManifest(cmd *cobra.Command, arg string) ([]manifest.Item, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "-":
		payload, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read manifest from stdin: %w", err)
		}
		return manifest.Parse(payload)
	case strings.HasPrefix(arg, "[") || strings.HasPrefix(arg, "{"):
		return manifest.Parse([]byte(arg))
	default:
		return manifest.ParseFile(arg)
	}
}
