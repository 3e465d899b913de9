package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func isStdio(name string) bool {
	return name == "" || name == "-"
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if isStdio(name) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// writeOutput writes data to the named file, or stdout for "" and "-".
func writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if isStdio(name) {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	log.Infof("wrote %s", name)
	return nil
}

func fileName(name string) string {
	if isStdio(name) {
		return "<stdin>"
	}
	return name
}
