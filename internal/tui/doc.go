// Package tui holds terminal detection and the lipgloss styles used by the
// command line.
package tui
