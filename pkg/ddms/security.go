package ddms

import (
	"fmt"
	"strings"

	"github.com/vvka-141/ddms/pkg/dom"
)

// Classification values accepted for the ism:classification attribute.
var Classifications = []string{"U", "C", "S", "TS", "R"}

// SecurityAttributes is the ISM attribute group that can decorate many DDMS
// elements. List-valued attributes are space-separated tokens in XML.
// The zero value is an empty group.
type SecurityAttributes struct {
	Classification        string
	OwnerProducer         []string
	SCIControls           []string
	SARIdentifier         []string
	DisseminationControls []string
	FGISourceOpen         []string
	ReleasableTo          []string
	NonICMarkings         []string
	ClassifiedBy          string
	DerivedFrom           string
	DeclassDate           string
	DeclassEvent          string
	CompilationReason     string
	AtomicEnergyMarkings  []string
}

type securityAttr struct {
	name   string
	since  string
	format ValueFormat
	tokens []string
	get    func(*SecurityAttributes) string
	set    func(*SecurityAttributes, string)
}

func scalarAttr(name, since string, format ValueFormat, tokens []string, p func(*SecurityAttributes) *string) securityAttr {
	return securityAttr{
		name: name, since: since, format: format, tokens: tokens,
		get: func(s *SecurityAttributes) string { return *p(s) },
		set: func(s *SecurityAttributes, val string) { *p(s) = strings.TrimSpace(val) },
	}
}

func listAttr(name, since string, p func(*SecurityAttributes) *[]string) securityAttr {
	return securityAttr{
		name: name, since: since,
		get: func(s *SecurityAttributes) string { return strings.Join(*p(s), " ") },
		set: func(s *SecurityAttributes, val string) { *p(s) = strings.Fields(val) },
	}
}

// securityAttrs is in output order.
var securityAttrs = []securityAttr{
	scalarAttr("classification", "", TokenValue, Classifications, func(s *SecurityAttributes) *string { return &s.Classification }),
	listAttr("ownerProducer", "", func(s *SecurityAttributes) *[]string { return &s.OwnerProducer }),
	listAttr("SCIcontrols", "", func(s *SecurityAttributes) *[]string { return &s.SCIControls }),
	listAttr("SARIdentifier", "", func(s *SecurityAttributes) *[]string { return &s.SARIdentifier }),
	listAttr("disseminationControls", "", func(s *SecurityAttributes) *[]string { return &s.DisseminationControls }),
	listAttr("FGIsourceOpen", "", func(s *SecurityAttributes) *[]string { return &s.FGISourceOpen }),
	listAttr("releasableTo", "", func(s *SecurityAttributes) *[]string { return &s.ReleasableTo }),
	listAttr("nonICmarkings", "", func(s *SecurityAttributes) *[]string { return &s.NonICMarkings }),
	scalarAttr("classifiedBy", "", AnyValue, nil, func(s *SecurityAttributes) *string { return &s.ClassifiedBy }),
	scalarAttr("derivedFrom", "", AnyValue, nil, func(s *SecurityAttributes) *string { return &s.DerivedFrom }),
	scalarAttr("declassDate", "", DateValue, nil, func(s *SecurityAttributes) *string { return &s.DeclassDate }),
	scalarAttr("declassEvent", "", AnyValue, nil, func(s *SecurityAttributes) *string { return &s.DeclassEvent }),
	scalarAttr("compilationReason", "3.0", AnyValue, nil, func(s *SecurityAttributes) *string { return &s.CompilationReason }),
	listAttr("atomicEnergyMarkings", "4.0.1", func(s *SecurityAttributes) *[]string { return &s.AtomicEnergyMarkings }),
}

// Set assigns an attribute by its XML local name, e.g. "ownerProducer".
func (s *SecurityAttributes) Set(name, value string) error {
	for _, a := range securityAttrs {
		if a.name == name {
			a.set(s, value)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown security attribute %q", ErrInvalidFormat, name)
}

// Get returns an attribute by its XML local name; lists are space-joined.
func (s *SecurityAttributes) Get(name string) string {
	if s == nil {
		return ""
	}
	for _, a := range securityAttrs {
		if a.name == name {
			return a.get(s)
		}
	}
	return ""
}

// IsEmpty reports whether no attribute has a value.
func (s *SecurityAttributes) IsEmpty() bool {
	if s == nil {
		return true
	}
	for _, a := range securityAttrs {
		if strings.TrimSpace(a.get(s)) != "" {
			return false
		}
	}
	return true
}

// Equal compares attribute values. A nil group equals an empty one.
func (s *SecurityAttributes) Equal(o *SecurityAttributes) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return s.IsEmpty() == o.IsEmpty()
	}
	for _, a := range securityAttrs {
		if a.get(s) != a.get(o) {
			return false
		}
	}
	return true
}

// Validate checks the group for v. When required is true, classification
// and ownerProducer must be present. A nil group is valid unless required.
func (s *SecurityAttributes) Validate(v *Version, required bool) error {
	if s.IsEmpty() {
		if required {
			return Failf(ErrMissingRequired, "classification attribute is required.")
		}
		return nil
	}
	for _, a := range securityAttrs {
		if a.since != "" && v.Before(a.since) && a.get(s) != "" {
			return Failf(ErrWrongName, "The %s attribute cannot be used until DDMS %s or later.",
				v.QName(VocabISM, a.name), a.since)
		}
	}
	if required {
		if s.Classification == "" {
			return Failf(ErrMissingRequired, "classification attribute is required.")
		}
		if len(s.OwnerProducer) == 0 {
			return Failf(ErrMissingRequired, "ownerProducer attribute is required.")
		}
	}
	for _, a := range securityAttrs {
		val := a.get(s)
		if val == "" {
			continue
		}
		f := Field{Format: a.format, Tokens: a.tokens}
		if msg := checkFormat(&f, val); msg != "" {
			return Failf(ErrInvalidFormat, "The %s attribute %s", v.QName(VocabISM, a.name), msg)
		}
	}
	return nil
}

// pairs returns the non-empty attributes as name/value pairs in output order.
func (s *SecurityAttributes) pairs() [][2]string {
	if s == nil {
		return nil
	}
	var out [][2]string
	for _, a := range securityAttrs {
		if val := a.get(s); val != "" {
			out = append(out, [2]string{a.name, val})
		}
	}
	return out
}

func (s *SecurityAttributes) attrs(v *Version) []dom.Attr {
	ns := v.Namespace(VocabISM)
	var out []dom.Attr
	for _, p := range s.pairs() {
		out = append(out, dom.Attr{Name: xmlName(ns, p[0]), Value: p[1]})
	}
	return out
}

// securityFromElement reads the ISM attributes of el, or nil when it has none.
func securityFromElement(v *Version, el *dom.Element) *SecurityAttributes {
	ns := v.Namespace(VocabISM)
	if ns == "" {
		return nil
	}
	s := &SecurityAttributes{}
	for _, a := range securityAttrs {
		if val, ok := el.Attr(ns, a.name); ok {
			a.set(s, val)
		}
	}
	if s.IsEmpty() {
		return nil
	}
	return s
}
