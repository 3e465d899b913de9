package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jianpu/lsp"
	"github.com/dhamidi/jianpu/notation"
)

func newLSPCmd() *cobra.Command {
	var defaultKey string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, notation.WithDefaultOrigin(defaultKey))
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&defaultKey, "default-key", os.Getenv(defaultKeyEnv), "key for scores without a key signature (env "+defaultKeyEnv+")")

	return cmd
}
