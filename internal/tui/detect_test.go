package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearModeEnv(t *testing.T) {
	t.Setenv(EnvNonInteractive, "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"explicit override", EnvNonInteractive, "1"},
		{"override with other value falls through", EnvNonInteractive, "true"},
		{"CI", "CI", "true"},
		{"NO_COLOR", "NO_COLOR", "1"},
		{"no terminal in tests", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearModeEnv(t)
			if tt.key != "" {
				t.Setenv(tt.key, tt.val)
			}
			assert.Equal(t, ModeNonInteractive, DetectMode())
			assert.False(t, IsInteractive())
		})
	}
}

func TestColorEnabled_NonTerminal(t *testing.T) {
	clearModeEnv(t)
	assert.False(t, ColorEnabled(&bytes.Buffer{}))
}

func TestPrinter_PlainWithoutColor(t *testing.T) {
	p := NewPrinter(false)
	assert.Equal(t, "✓ a.xml", p.Success("a.xml"))
	assert.Equal(t, "✗ b.xml", p.Failure("b.xml"))
	assert.Equal(t, "! empty dates", p.Warning("empty dates"))
	assert.Equal(t, "Summary", p.Title("Summary"))
	assert.Equal(t, "DDMS 5.0", p.Muted("DDMS 5.0"))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "Overwrite record.xml?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Overwrite record.xml? [Y/n]: ", out.String())
	}
}
