package ddms

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Validate re-checks the component against its version. Components returned
// by New, FromElement and Builder.Commit have already passed; Validate is
// exposed for callers that want the check without building a new value.
//
// Checks run in a fixed order and the first failure is returned:
// version gates, required values, child counts, value formats, child
// versions, security attributes, then the type's own rules.
func (c *Component) Validate() error {
	v, t := c.version, c.typ
	loc := c.Locator()
	fail := func(kind error, format string, args ...any) error {
		return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...), Locator: loc}
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Allowed(v) || !c.present(f) {
			continue
		}
		if f.Since != "" && v.Before(f.Since) {
			return fail(ErrWrongName, "The %s %s cannot be used until DDMS %s or later.", f.displayName(v), f.noun(), f.Since)
		}
		return fail(ErrWrongName, "The %s %s cannot be used after DDMS %s.", f.displayName(v), f.noun(), f.Until)
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.scalar() || f.Min == 0 || !f.Allowed(v) {
			continue
		}
		if _, ok := c.values[f.Key]; ok {
			continue
		}
		switch f.Kind {
		case AttrField:
			return fail(ErrMissingRequired, "%s attribute is required.", f.displayName(v))
		case TextField:
			return fail(ErrMissingRequired, "%s value is required.", t.ElementName(v))
		case ElementTextField:
			return fail(ErrMissingRequired, "Exactly 1 %s element must exist.", f.ElementName(v))
		}
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Kind != ComponentField || !f.Allowed(v) {
			continue
		}
		n := len(c.children[f.Key])
		name := f.ElementName(v)
		if n < f.Min {
			if f.Min == 1 && f.Max == 1 {
				return fail(ErrMissingRequired, "Exactly 1 %s element must exist.", name)
			}
			return fail(ErrMissingRequired, "At least %d %s element(s) must exist.", f.Min, name)
		}
		if f.Max > 0 && n > f.Max {
			if f.Min == 1 && f.Max == 1 {
				return fail(ErrCardinality, "Exactly 1 %s element must exist.", name)
			}
			return fail(ErrCardinality, "No more than %d %s element(s) may exist.", f.Max, name)
		}
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if !f.scalar() {
			continue
		}
		val, ok := c.values[f.Key]
		if !ok {
			continue
		}
		if msg := checkFormat(f, val); msg != "" {
			return fail(ErrInvalidFormat, "The %s %s %s", f.displayName(v), f.noun(), msg)
		}
	}

	for _, child := range c.Nested() {
		if !child.version.Equal(v) {
			return fail(ErrCrossField, "A child component, %s, is using a different version of DDMS.", child.QName())
		}
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	for _, rule := range t.Rules {
		if err := rule(c); err != nil {
			if ve, ok := AsValidationError(err); ok {
				out := *ve
				if out.Locator == "" {
					out.Locator = loc
				}
				return &out
			}
			return err
		}
	}
	return nil
}

func (c *Component) validateSecurity() error {
	v, p := c.version, c.typ.Security
	loc := c.Locator()
	if !p.allowedIn(v) {
		if c.security == nil {
			return nil
		}
		if !p.Allowed {
			return &ValidationError{Kind: ErrWrongName, Message: "Security attributes cannot be applied to this component.", Locator: loc}
		}
		return &ValidationError{
			Kind:    ErrWrongName,
			Message: fmt.Sprintf("Security attributes cannot be applied to this component until DDMS %s or later.", p.Since),
			Locator: loc,
		}
	}
	if err := c.security.Validate(v, p.Required); err != nil {
		if ve, ok := AsValidationError(err); ok {
			return ve.WithParent(loc)
		}
		return err
	}
	return nil
}

// collectWarnings gathers the type's warning rules and the warnings of every
// child, re-rooted under this component's locator.
func (c *Component) collectWarnings() []Message {
	loc := c.Locator()
	var out []Message
	for _, rule := range c.typ.Warnings {
		for _, text := range rule(c) {
			out = append(out, Message{Kind: WarningMessage, Text: text, Locator: loc})
		}
	}
	content := c.typ.contentLocator(c.version)
	for _, child := range c.Nested() {
		for _, m := range child.warnings {
			out = append(out, m.withParent(content))
		}
	}
	return out
}

func (c *Component) present(f *Field) bool {
	if f.Kind == ComponentField {
		return len(c.children[f.Key]) > 0
	}
	_, ok := c.values[f.Key]
	return ok
}

func (f *Field) noun() string {
	switch f.Kind {
	case AttrField:
		return "attribute"
	case TextField:
		return "value"
	}
	return "element"
}

// displayName qualifies names outside the primary vocabulary, e.g.
// "ism:createDate".
func (f *Field) displayName(v *Version) string {
	if f.Vocab == VocabDDMS || f.Kind == ComponentField {
		return f.ElementName(v)
	}
	return v.QName(f.Vocab, f.ElementName(v))
}

func checkFormat(f *Field, val string) string {
	switch f.Format {
	case DateValue:
		if slices.Contains(f.Tokens, val) {
			return ""
		}
		if _, ok := parseDate(val); !ok {
			return fmt.Sprintf("value %q must be an xs:dateTime, xs:date, xs:gYearMonth or xs:gYear.", val)
		}
	case URIValue:
		if strings.ContainsAny(val, " \t\r\n") {
			return fmt.Sprintf("value %q is not a valid URI.", val)
		}
		if _, err := url.Parse(val); err != nil {
			return fmt.Sprintf("value %q is not a valid URI.", val)
		}
	case IntegerValue:
		if _, err := strconv.Atoi(val); err != nil {
			return fmt.Sprintf("value %q is not a valid integer.", val)
		}
	case BooleanValue:
		switch val {
		case "true", "false", "1", "0":
		default:
			return fmt.Sprintf("value %q is not a valid boolean.", val)
		}
	case TokenValue:
		if !slices.Contains(f.Tokens, val) {
			return fmt.Sprintf("value %q must be one of: %s.", val, strings.Join(f.Tokens, ", "))
		}
	}
	return ""
}

// Lexical forms of the XML Schema date types DDMS accepts, most precise first.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02Z07:00",
	"2006-01-02",
	"2006-01Z07:00",
	"2006-01",
	"2006Z07:00",
	"2006",
}

// parseDate parses an xs:dateTime, xs:date, xs:gYearMonth or xs:gYear value.
// Partial dates resolve to the start of their period.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
