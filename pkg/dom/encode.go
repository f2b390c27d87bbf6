package dom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// Encoder writes element trees as namespace-qualified XML.
//
// Prefixes maps namespace URIs to the prefix used on output. Namespaces
// without a configured prefix are given generated ones (ns1, ns2, ...).
// All declarations are emitted on the root element in prefix order, so the
// same tree always produces the same bytes.
type Encoder struct {
	w        io.Writer
	prefixes map[string]string
	indent   string
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, prefixes map[string]string) *Encoder {
	return &Encoder{w: w, prefixes: prefixes}
}

// Indent sets the per-level indentation. An empty string disables it.
func (enc *Encoder) Indent(indent string) {
	enc.indent = indent
}

// Encode writes root and its descendants.
func (enc *Encoder) Encode(root *Element) error {
	if root == nil {
		return ErrNoRoot
	}
	bound := enc.bindPrefixes(root)

	var buf bytes.Buffer
	writeElement(&buf, root, bound, enc.indent, 0, true)
	_, err := enc.w.Write(buf.Bytes())
	return err
}

// Marshal is a convenience wrapper returning the encoded bytes without
// indentation.
func Marshal(root *Element, prefixes map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, prefixes).Encode(root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (enc *Encoder) bindPrefixes(root *Element) map[string]string {
	used := map[string]struct{}{}
	collectNamespaces(root, used)

	spaces := make([]string, 0, len(used))
	for ns := range used {
		spaces = append(spaces, ns)
	}
	sort.Strings(spaces)

	bound := make(map[string]string, len(spaces))
	taken := map[string]bool{}
	for _, ns := range spaces {
		if p, ok := enc.prefixes[ns]; ok && p != "" && !taken[p] {
			bound[ns] = p
			taken[p] = true
		}
	}
	n := 0
	for _, ns := range spaces {
		if _, ok := bound[ns]; ok {
			continue
		}
		for {
			n++
			p := fmt.Sprintf("ns%d", n)
			if !taken[p] {
				bound[ns] = p
				taken[p] = true
				break
			}
		}
	}
	return bound
}

func collectNamespaces(e *Element, used map[string]struct{}) {
	if e.Name.Space != "" {
		used[e.Name.Space] = struct{}{}
	}
	for _, a := range e.Attrs {
		if a.Name.Space != "" && a.Name.Space != xmlNamespace {
			used[a.Name.Space] = struct{}{}
		}
	}
	for _, c := range e.Children {
		collectNamespaces(c, used)
	}
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

func qualified(n xml.Name, bound map[string]string) string {
	if n.Space == "" {
		return n.Local
	}
	if n.Space == xmlNamespace {
		return "xml:" + n.Local
	}
	return bound[n.Space] + ":" + n.Local
}

func writeElement(buf *bytes.Buffer, e *Element, bound map[string]string, indent string, depth int, root bool) {
	writeIndent(buf, indent, depth)
	name := qualified(e.Name, bound)
	buf.WriteByte('<')
	buf.WriteString(name)

	if root {
		decls := make([]string, 0, len(bound))
		byPrefix := make(map[string]string, len(bound))
		for ns, p := range bound {
			decls = append(decls, p)
			byPrefix[p] = ns
		}
		sort.Strings(decls)
		for _, p := range decls {
			writeAttr(buf, "xmlns:"+p, byPrefix[p])
		}
	}
	for _, a := range e.Attrs {
		writeAttr(buf, qualified(a.Name, bound), a.Value)
	}

	if len(e.Children) == 0 && e.Text == "" {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	if e.Text != "" {
		_ = xml.EscapeText(buf, []byte(e.Text))
	}
	for _, c := range e.Children {
		if indent != "" {
			buf.WriteByte('\n')
		}
		writeElement(buf, c, bound, indent, depth+1, false)
	}
	if len(e.Children) > 0 && indent != "" {
		buf.WriteByte('\n')
		writeIndent(buf, indent, depth)
	}
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteByte('"')
}

func writeIndent(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	for i := 0; i < depth; i++ {
		buf.WriteString(indent)
	}
}
