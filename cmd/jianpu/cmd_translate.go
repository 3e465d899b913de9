package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jianpu/format"
	"github.com/dhamidi/jianpu/notation"
	"github.com/dhamidi/jianpu/pitch"
)

func newTranslateCmd() *cobra.Command {
	var (
		origKey       string
		targetKey     string
		symbols       string
		outputFormat  string
		defaultKey    string
		keepSignature bool
	)

	cmd := &cobra.Command{
		Use:   "translate <input> [output]",
		Short: "Re-spell a score in the target key",
		Long: `Re-spell a jianpu score in another key without changing its pitches.

The first line of the input is the title. A "1=<key>" line sets the key of
the notes that follow; the first one is replaced by the target key on output.
Use "-" as input to read stdin. Without an output file the result is written
to stdout.

Keys are one of ` + strings.Join(pitch.Keys(), ", ") + `, optionally
wrapped in "()" (octave lower) or "[]" (octave higher).`,
		Example: `  jianpu translate -t C song.txt
  jianpu translate -o D -t "(G)" -s flat song.txt song-g.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			var output string
			if len(args) == 2 {
				output = args[1]
			}

			table, err := pitch.TableByName(symbols)
			if err != nil {
				return err
			}

			source, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			opts := []notation.Option{
				notation.WithFile(fileName(input)),
				notation.WithDefaultOrigin(defaultKey),
			}
			if keepSignature {
				opts = append(opts, notation.WithPreserveSignature())
			}

			doc, err := notation.Translate(origKey, targetKey, source, opts...)
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}

			var buf bytes.Buffer
			encoder, err := format.NewEncoder(outputFormat, &buf, table)
			if err != nil {
				return err
			}
			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&origKey, "orig-key", "o", "", "translate from this key, overriding the score's key signature")
	cmd.Flags().StringVarP(&targetKey, "target-key", "t", "", "translate to this key")
	cmd.Flags().StringVarP(&symbols, "symbols", "s", "default", "output symbols ("+strings.Join(pitch.TableNames(), ", ")+")")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "jianpu", "output format (jianpu, json, lines, midi)")
	cmd.Flags().StringVar(&defaultKey, "default-key", os.Getenv(defaultKeyEnv), "key for scores without a key signature (env "+defaultKeyEnv+")")
	cmd.Flags().BoolVarP(&keepSignature, "keep-signature", "k", false, "keep the original key signatures as comments")
	cmd.MarkFlagRequired("target-key")

	return cmd
}
