// Package dom provides the generic XML element tree that DDMS components are
// parsed from and serialized to.
//
// The tree is deliberately small: namespace-resolved element and attribute
// names, ordered children and the character data directly inside an element.
// Comments, processing instructions and namespace declarations are not kept;
// on output every namespace is declared once on the root element.
package dom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRoot is returned when a document has no root element.
var ErrNoRoot = errors.New("document has no root element")

// Attr is a namespace-qualified attribute.
type Attr struct {
	Name  xml.Name
	Value string
}

// Element is one node of the tree. Name.Space holds the namespace URI,
// never a prefix.
type Element struct {
	Name     xml.Name
	Attrs    []Attr
	Children []*Element
	Text     string
}

// NewElement creates an element in the given namespace.
func NewElement(space, local string) *Element {
	return &Element{Name: xml.Name{Space: space, Local: local}}
}

// Attr returns the value of the attribute with the given namespace and local
// name and whether it was present.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute and returns the element.
func (e *Element) SetAttr(space, local, value string) *Element {
	for i, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
	return e
}

// AddChild appends child and returns it.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return child
}

// ChildrenNamed returns the direct children matching namespace and local name,
// in document order.
func (e *Element) ChildrenNamed(space, local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(space, local string) *Element {
	for _, c := range e.Children {
		if c.Name.Space == space && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Value returns the element's character data with surrounding whitespace
// removed.
func (e *Element) Value() string {
	return strings.TrimSpace(e.Text)
}

// Parse reads a single XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *Element
		stack []*Element
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				el.Attrs = append(el.Attrs, Attr{Name: a.Name, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements: found <%s> after <%s>", t.Name.Local, root.Name.Local)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(stack) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

func isNamespaceDecl(n xml.Name) bool {
	return n.Space == "xmlns" || (n.Space == "" && n.Local == "xmlns")
}
