package ddms

import (
	"fmt"
	"strings"
)

// Builder is a mutable draft of a component. Builders are filled in field by
// field, possibly across several steps, and turned into an immutable
// Component with Commit. A Builder is not safe for concurrent use.
type Builder struct {
	typ      *Type
	values   map[string]string
	children map[string][]*Builder
	security *SecurityAttributes
}

// NewBuilder returns an empty builder for t.
func NewBuilder(t *Type) *Builder {
	return &Builder{typ: t, values: map[string]string{}, children: map[string][]*Builder{}}
}

// BuilderFrom returns a builder holding a deep copy of c's values. Committing
// it unchanged under c's version yields a component equal to c.
func BuilderFrom(c *Component) *Builder {
	b := NewBuilder(c.typ)
	own := Data{Values: c.values, Security: c.security}.clone()
	b.values, b.security = own.Values, own.Security
	for key, list := range c.children {
		for _, child := range list {
			b.children[key] = append(b.children[key], BuilderFrom(child))
		}
	}
	return b
}

// Type returns the type the builder drafts.
func (b *Builder) Type() *Type { return b.typ }

// Set assigns a scalar value. It panics when key is not a scalar field of
// the builder's type, which is a programming error.
func (b *Builder) Set(key, value string) *Builder {
	b.scalarField(key)
	b.values[key] = value
	return b
}

// Get returns a scalar value or "".
func (b *Builder) Get(key string) string {
	b.scalarField(key)
	return b.values[key]
}

// Child returns the first child builder of a field, creating it on first use.
func (b *Builder) Child(key string) *Builder {
	f := b.componentField(key)
	if len(b.children[key]) == 0 {
		b.children[key] = []*Builder{NewBuilder(f.Type)}
	}
	return b.children[key][0]
}

// AddChild appends a new child builder to a repeated field and returns it.
func (b *Builder) AddChild(key string) *Builder {
	f := b.componentField(key)
	child := NewBuilder(f.Type)
	b.children[key] = append(b.children[key], child)
	return child
}

// Children returns the child builders of a field.
func (b *Builder) Children(key string) []*Builder {
	b.componentField(key)
	return b.children[key]
}

// Security returns the security attribute draft, creating it on first use.
func (b *Builder) Security() *SecurityAttributes {
	if b.security == nil {
		b.security = &SecurityAttributes{}
	}
	return b.security
}

// IsEmpty reports whether nothing has been filled in, recursively.
func (b *Builder) IsEmpty() bool {
	for _, val := range b.values {
		if strings.TrimSpace(val) != "" {
			return false
		}
	}
	for _, list := range b.children {
		for _, child := range list {
			if !child.IsEmpty() {
				return false
			}
		}
	}
	return b.security.IsEmpty()
}

// Data converts the draft into build input for v. Empty child builders are
// skipped; non-empty ones are committed first.
func (b *Builder) Data(v *Version) (Data, error) {
	d := Data{Values: map[string]string{}, Children: map[string][]*Component{}}
	for key, val := range b.values {
		d.Values[key] = val
	}
	for i := range b.typ.Fields {
		key := b.typ.Fields[i].Key
		for _, child := range b.children[key] {
			c, err := child.Commit(v)
			if err != nil {
				if ve, ok := AsValidationError(err); ok {
					return Data{}, ve.WithParent(b.typ.contentLocator(v))
				}
				return Data{}, err
			}
			if c != nil {
				d.Children[key] = append(d.Children[key], c)
			}
		}
	}
	if !b.security.IsEmpty() {
		d.Security = b.security
	}
	return d, nil
}

// Commit validates the draft for v. An empty builder commits to nil with no
// error, so optional children can be left untouched.
func (b *Builder) Commit(v *Version) (*Component, error) {
	if b.IsEmpty() {
		return nil, nil
	}
	d, err := b.Data(v)
	if err != nil {
		return nil, err
	}
	return New(v, b.typ, d)
}

func (b *Builder) scalarField(key string) *Field {
	f, ok := b.typ.Field(key)
	if !ok || !f.scalar() {
		panic(fmt.Sprintf("ddms: %s has no value named %q", b.typ.Name, key))
	}
	return f
}

func (b *Builder) componentField(key string) *Field {
	f, ok := b.typ.Field(key)
	if !ok || f.Kind != ComponentField {
		panic(fmt.Sprintf("ddms: %s has no child named %q", b.typ.Name, key))
	}
	return f
}
