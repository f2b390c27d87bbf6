package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "!"
	SymbolBullet  = "•"
)

// Printer styles report lines. With color disabled every method returns its
// input unchanged, so piped output stays plain.
type Printer struct {
	color bool
}

func NewPrinter(color bool) Printer {
	return Printer{color: color}
}

func (p Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p Printer) Title(text string) string   { return p.render(TitleStyle, text) }
func (p Printer) Success(text string) string { return p.render(SuccessStyle, SymbolCheck+" "+text) }
func (p Printer) Failure(text string) string { return p.render(ErrorStyle, SymbolCross+" "+text) }
func (p Printer) Warning(text string) string { return p.render(WarningStyle, SymbolWarning+" "+text) }
func (p Printer) Muted(text string) string   { return p.render(MutedStyle, text) }
