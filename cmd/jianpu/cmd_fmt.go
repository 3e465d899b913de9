package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jianpu/notation"
)

func newFmtCmd() *cobra.Command {
	var (
		fmtOverwrite bool
		defaultKey   string
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Re-balance octave brackets of a score in its own key",
		Long: `Re-render a score in its own key to stdout.

Octave brackets are closed at the end of every line and redundant brackets
are merged, so "(1)(2)" becomes "(12)". Key signature lines are kept where
they are written, and the notes after each one stay in its key.

If no file is provided, reads the score from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 1 {
				filename = args[0]
			}
			if fmtOverwrite && isStdio(filename) {
				return fmt.Errorf("-w requires a file argument")
			}

			source, err := readInput(cmd, filename)
			if err != nil {
				return err
			}

			output, err := notation.Normalize(source,
				notation.WithFile(fileName(filename)),
				notation.WithDefaultOrigin(defaultKey),
			)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return writeOutput(cmd, filename, output)
			}
			return writeOutput(cmd, "", output)
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().StringVar(&defaultKey, "default-key", os.Getenv(defaultKeyEnv), "key for scores without a key signature (env "+defaultKeyEnv+")")

	return cmd
}
