package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jianpu/format"
	"github.com/dhamidi/jianpu/notation"
)

func newMIDICmd() *cobra.Command {
	var (
		origKey    string
		defaultKey string
		channel    uint8
		velocity   uint8
	)

	cmd := &cobra.Command{
		Use:   "midi <input> [output]",
		Short: "Write the pitches of a score as raw MIDI messages",
		Long: `Write one NoteOn/NoteOff pair per note of the score as a raw MIDI byte
stream, for example to feed a synthesizer or compare two scores by pitch.
The home-octave "1=C" maps to middle C (60).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			var output string
			if len(args) == 2 {
				output = args[1]
			}

			source, err := readInput(cmd, input)
			if err != nil {
				return err
			}

			doc, err := notation.Translate(origKey, notation.ReferenceKey, source,
				notation.WithFile(fileName(input)),
				notation.WithDefaultOrigin(defaultKey),
			)
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}

			var buf bytes.Buffer
			enc := format.NewMIDIEncoder(&buf)
			if err := enc.SetChannel(channel); err != nil {
				return err
			}
			if err := enc.SetVelocity(velocity); err != nil {
				return err
			}
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			return writeOutput(cmd, output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&origKey, "orig-key", "o", "", "key of the score, overriding its key signature")
	cmd.Flags().StringVar(&defaultKey, "default-key", os.Getenv(defaultKeyEnv), "key for scores without a key signature (env "+defaultKeyEnv+")")
	cmd.Flags().Uint8Var(&channel, "channel", 0, "MIDI channel (0-15)")
	cmd.Flags().Uint8Var(&velocity, "velocity", 90, "NoteOn velocity (1-127)")

	return cmd
}
