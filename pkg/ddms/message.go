package ddms

import "fmt"

// MessageKind distinguishes fatal from non-fatal validation messages.
type MessageKind int

const (
	WarningMessage MessageKind = iota
	ErrorMessage
)

func (k MessageKind) String() string {
	if k == ErrorMessage {
		return "error"
	}
	return "warning"
}

// Message is a validation finding. Warnings are attached to the component
// that produced them; errors travel as *ValidationError.
type Message struct {
	Kind    MessageKind
	Text    string
	Locator string
}

func (m Message) String() string {
	if m.Locator == "" {
		return fmt.Sprintf("[%s] %s", m.Kind, m.Text)
	}
	return fmt.Sprintf("[%s] %s: %s", m.Kind, m.Locator, m.Text)
}

func (m Message) withParent(parent string) Message {
	m.Locator = parent + m.Locator
	return m
}

func warning(locator, format string, args ...any) Message {
	return Message{Kind: WarningMessage, Text: fmt.Sprintf(format, args...), Locator: locator}
}
