package ddms

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/vvka-141/ddms/pkg/dom"
)

// Data is the explicit partial value of a component: scalar values by field
// key, nested components by field key and the security attribute group.
// A key absent from Values means "not present"; an empty string means
// "present but blank".
type Data struct {
	Values   map[string]string
	Children map[string][]*Component `copy:"-"`
	Security *SecurityAttributes
}

// clone deep-copies the values and the security attributes. Children are
// left out; components are immutable, so callers share d.Children directly.
func (d Data) clone() Data {
	var out Data
	// Strings, string slices and a string map always copy.
	_ = deepcopy.Copy(&out, d)
	if out.Values == nil {
		out.Values = map[string]string{}
	}
	return out
}

// Component is an immutable, validated DDMS element. Components are safe to
// share between goroutines.
type Component struct {
	typ      *Type
	version  *Version
	values   map[string]string
	children map[string][]*Component
	security *SecurityAttributes
	warnings []Message

	nestedOnce sync.Once
	nested     []*Component
}

// New builds a component from raw data and validates it for v.
func New(v *Version, t *Type, d Data) (*Component, error) {
	if v == nil {
		return nil, &ValidationError{Kind: ErrNoVersionSelected, Message: "a DDMS version is required to build a component"}
	}
	if t == nil {
		return nil, fmt.Errorf("%w: nil component type", ErrInvalidConfig)
	}

	own := d.clone()
	values := own.Values
	for key, val := range values {
		f, ok := t.Field(key)
		if !ok || !f.scalar() {
			return nil, &ValidationError{
				Kind:    ErrInvalidFormat,
				Message: fmt.Sprintf("%s has no value named %q", t.Name, key),
				Locator: "/" + t.QName(v),
			}
		}
		values[key] = strings.TrimSpace(val)
	}

	children := map[string][]*Component{}
	for key, list := range d.Children {
		f, ok := t.Field(key)
		if !ok || f.Kind != ComponentField {
			return nil, &ValidationError{
				Kind:    ErrInvalidFormat,
				Message: fmt.Sprintf("%s has no child named %q", t.Name, key),
				Locator: "/" + t.QName(v),
			}
		}
		for _, child := range list {
			if child == nil {
				continue
			}
			if child.typ != f.Type {
				return nil, &ValidationError{
					Kind:    ErrWrongName,
					Message: fmt.Sprintf("the %s child of %s must be a %s, not a %s", key, t.Name, f.Type.Name, child.typ.Name),
					Locator: "/" + t.QName(v),
				}
			}
			children[key] = append(children[key], child)
		}
	}

	var sec *SecurityAttributes
	if !own.Security.IsEmpty() {
		sec = own.Security
	}
	return build(v, t, values, children, sec)
}

// FromElement builds a component from a parsed element and validates it for
// v. The element's qualified name must match the type's name in v.
func FromElement(v *Version, t *Type, el *dom.Element) (*Component, error) {
	if v == nil {
		return nil, &ValidationError{Kind: ErrNoVersionSelected, Message: "a DDMS version is required to read a component"}
	}
	if t == nil || el == nil {
		return nil, fmt.Errorf("%w: nil component type or element", ErrInvalidConfig)
	}

	locator := "/" + t.QName(v)
	if el.Name.Local != t.ElementName(v) || el.Name.Space != v.Namespace(t.Vocab) {
		return nil, &ValidationError{
			Kind: ErrWrongName,
			Message: fmt.Sprintf("expected %s in namespace %q but found %s in namespace %q",
				t.ElementName(v), v.Namespace(t.Vocab), el.Name.Local, el.Name.Space),
			Locator: locator,
		}
	}

	content := el
	if t.wrapped(v) {
		wrappers := el.ChildrenNamed(v.Namespace(t.Vocab), t.Wrapper)
		if len(wrappers) != 1 {
			return nil, &ValidationError{
				Kind:    ErrMissingRequired,
				Message: fmt.Sprintf("Exactly 1 %s element must exist.", t.Wrapper),
				Locator: locator,
			}
		}
		content = wrappers[0]
	}

	values := map[string]string{}
	children := map[string][]*Component{}
	for i := range t.Fields {
		f := &t.Fields[i]
		ns := v.Namespace(f.Vocab)
		switch f.Kind {
		case AttrField:
			if val, ok := el.Attr(ns, f.ElementName(v)); ok {
				values[f.Key] = strings.TrimSpace(val)
			}
		case TextField:
			if val := el.Value(); val != "" {
				values[f.Key] = val
			}
		case ElementTextField:
			found := content.ChildrenNamed(ns, f.ElementName(v))
			if len(found) > 1 {
				return nil, &ValidationError{
					Kind:    ErrCardinality,
					Message: fmt.Sprintf("No more than 1 %s element may exist.", f.ElementName(v)),
					Locator: locator,
				}
			}
			if len(found) == 1 {
				values[f.Key] = found[0].Value()
			}
		case ComponentField:
			for _, childEl := range content.ChildrenNamed(v.Namespace(f.Type.Vocab), f.Type.ElementName(v)) {
				child, err := FromElement(v, f.Type, childEl)
				if err != nil {
					if ve, ok := AsValidationError(err); ok {
						return nil, ve.WithParent(t.contentLocator(v))
					}
					return nil, err
				}
				children[f.Key] = append(children[f.Key], child)
			}
		}
	}

	return build(v, t, values, children, securityFromElement(v, el))
}

func build(v *Version, t *Type, values map[string]string, children map[string][]*Component, sec *SecurityAttributes) (*Component, error) {
	locator := "/" + t.QName(v)
	if !t.Available(v) {
		return nil, &ValidationError{
			Kind:    ErrUnsupportedVersion,
			Message: fmt.Sprintf("The %s element cannot be used until DDMS %s or later.", t.ElementName(v), t.Since),
			Locator: locator,
		}
	}

	var warnings []Message
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Default == "" || !f.scalar() {
			continue
		}
		if val, ok := values[f.Key]; ok && val == "" {
			values[f.Key] = f.Default
			warnings = append(warnings, warning(locator,
				"A %s element was found with no value. Defaulting to %q.", v.QName(f.Vocab, f.ElementName(v)), f.Default))
		}
	}
	// Blank is the same as absent from here on.
	for k, val := range values {
		if val == "" {
			delete(values, k)
		}
	}

	c := &Component{
		typ:      t,
		version:  v,
		values:   values,
		children: children,
		security: sec,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.warnings = append(warnings, c.collectWarnings()...)
	return c, nil
}

// Type returns the component's type descriptor.
func (c *Component) Type() *Type { return c.typ }

// Version returns the version the component was validated against.
func (c *Component) Version() *Version { return c.version }

// Name returns the element's local name in the component's version.
func (c *Component) Name() string { return c.typ.ElementName(c.version) }

// QName returns the prefixed element name.
func (c *Component) QName() string { return c.typ.QName(c.version) }

// Namespace returns the element's namespace URI.
func (c *Component) Namespace() string { return c.version.Namespace(c.typ.Vocab) }

// Locator returns the component's own path segment, e.g. "/ddms:identifier".
func (c *Component) Locator() string { return "/" + c.QName() }

// Value returns a scalar value and whether it is present.
func (c *Component) Value(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Get returns a scalar value or "".
func (c *Component) Get(key string) string { return c.values[key] }

// Values returns a copy of all scalar values.
func (c *Component) Values() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Children returns the nested components of a field, in document order.
func (c *Component) Children(key string) []*Component {
	return append([]*Component(nil), c.children[key]...)
}

// Child returns the first nested component of a field, or nil.
func (c *Component) Child(key string) *Component {
	if list := c.children[key]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// Nested returns all direct children in field order. The list is computed on
// first use and reused afterwards.
func (c *Component) Nested() []*Component {
	c.nestedOnce.Do(func() {
		for i := range c.typ.Fields {
			if f := &c.typ.Fields[i]; f.Kind == ComponentField {
				c.nested = append(c.nested, c.children[f.Key]...)
			}
		}
	})
	return append([]*Component(nil), c.nested...)
}

// Security returns a copy of the security attributes, or nil.
func (c *Component) Security() *SecurityAttributes {
	return Data{Security: c.security}.clone().Security
}

// Warnings returns the non-fatal findings of this component and its
// descendants.
func (c *Component) Warnings() []Message {
	return append([]Message(nil), c.warnings...)
}

// Equal reports semantic equality: same type, same version, same values,
// children and security attributes. Warnings are ignored.
func (c *Component) Equal(o *Component) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.typ != o.typ || !c.version.Equal(o.version) {
		return false
	}
	if len(c.values) != len(o.values) {
		return false
	}
	for k, v := range c.values {
		if ov, ok := o.values[k]; !ok || ov != v {
			return false
		}
	}
	for i := range c.typ.Fields {
		key := c.typ.Fields[i].Key
		a, b := c.children[key], o.children[key]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !a[j].Equal(b[j]) {
				return false
			}
		}
	}
	return c.security.Equal(o.security)
}

func (c *Component) String() string {
	return c.ToText()
}
