package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorOutcome tints publish outcomes when writing to a terminal.
func colorOutcome(w io.Writer, outcome string) string {
	if !isTerminal(w) {
		return outcome
	}
	switch outcome {
	case "published":
		return ansiGreen + outcome + ansiReset
	case "failed":
		return ansiRed + outcome + ansiReset
	case "skipped":
		return ansiYellow + outcome + ansiReset
	default:
		return outcome
	}
}
