package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jianpu/notation"
)

func newCheckCmd() *cobra.Command {
	var defaultKey string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report syntax errors in scores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, filename := range args {
				if err := checkFile(cmd, filename, defaultKey); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultKey, "default-key", os.Getenv(defaultKeyEnv), "key for scores without a key signature (env "+defaultKeyEnv+")")

	return cmd
}

func checkFile(cmd *cobra.Command, filename, defaultKey string) error {
	source, err := readInput(cmd, filename)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	doc, err := notation.Translate("", notation.ReferenceKey, source,
		notation.WithFile(fileName(filename)),
		notation.WithDefaultOrigin(defaultKey),
	)
	if err != nil {
		return err
	}
	log.Debugf("%s: %d notes on %d lines", filename, len(doc.Notes()), doc.Lines())
	return nil
}
