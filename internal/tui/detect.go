package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of the command line.
type Mode int

const (
	// ModeNonInteractive is used for CI pipelines, scripts and piped output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// EnvNonInteractive forces non-interactive mode when set to "1".
const EnvNonInteractive = "DDMS_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive if:
//   - DDMS_NON_INTERACTIVE=1 is set
//   - CI is set
//   - NO_COLOR is set
//   - stdin or stdout is not a terminal
//
// and ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(EnvNonInteractive) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// ColorEnabled reports whether styled output should be written to w.
// Only terminals get color, and NO_COLOR always wins.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
