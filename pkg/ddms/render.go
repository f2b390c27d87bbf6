package ddms

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vvka-141/ddms/pkg/dom"
)

// OutputFormat selects a rendering of a component.
type OutputFormat int

const (
	OutputText OutputFormat = iota
	OutputHTML
	OutputJSON
	OutputXML
)

var outputFormatNames = []string{"text", "html", "json", "xml"}

func (f OutputFormat) String() string {
	if int(f) < len(outputFormatNames) {
		return outputFormatNames[f]
	}
	return fmt.Sprintf("OutputFormat(%d)", int(f))
}

// OutputFormatNames lists the accepted names of ParseOutputFormat.
func OutputFormatNames() []string { return append([]string(nil), outputFormatNames...) }

// ParseOutputFormat parses "text", "html", "json" or "xml", ignoring case.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for i, name := range outputFormatNames {
		if strings.EqualFold(s, name) {
			return OutputFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown output format %q (want one of %s)",
		ErrInvalidConfig, s, strings.Join(outputFormatNames, ", "))
}

// Render produces the component in the given format. The flat formats key
// every leaf value by its dotted path, starting with prefix; XML ignores
// prefix.
func (c *Component) Render(format OutputFormat, prefix string) (string, error) {
	switch format {
	case OutputText:
		return renderText(c.Pairs(prefix)), nil
	case OutputHTML:
		return renderHTML(c.Pairs(prefix)), nil
	case OutputJSON:
		return renderJSON(c.Pairs(prefix))
	case OutputXML:
		return c.ToXML()
	}
	return "", fmt.Errorf("%w: unknown output format %d", ErrInvalidConfig, int(format))
}

// ToText renders one "key: value" line per leaf value.
func (c *Component) ToText() string { return renderText(c.Pairs("")) }

// ToHTML renders one meta tag per leaf value.
func (c *Component) ToHTML() string { return renderHTML(c.Pairs("")) }

// ToJSON renders a flat JSON object with dotted keys in document order.
func (c *Component) ToJSON() (string, error) { return renderJSON(c.Pairs("")) }

// ToXML serializes the component with the configured namespace prefixes.
func (c *Component) ToXML() (string, error) {
	out, err := dom.Marshal(c.Element(), c.version.PrefixTable())
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", c.QName(), err)
	}
	return string(out), nil
}

// Pair is one flattened leaf value.
type Pair struct {
	Key   string
	Value string
}

// Pairs flattens the component into dotted keys. Repeated children are
// numbered from 1, e.g. "resource.identifier[2].value". Blank values are
// omitted.
func (c *Component) Pairs(prefix string) []Pair {
	return c.flatten(prefix+c.Name(), nil)
}

func (c *Component) flatten(own string, out []Pair) []Pair {
	add := func(key, val string) {
		if val != "" {
			out = append(out, Pair{Key: key, Value: val})
		}
	}
	v := c.version
	for i := range c.typ.Fields {
		f := &c.typ.Fields[i]
		switch f.Kind {
		case TextField:
			add(own, c.values[f.Key])
		case AttrField, ElementTextField:
			add(own+"."+f.label(v), c.values[f.Key])
		case ComponentField:
			list := c.children[f.Key]
			for n, child := range list {
				key := own + "." + child.Name()
				if len(list) > 1 {
					key += fmt.Sprintf("[%d]", n+1)
				}
				out = child.flatten(key, out)
			}
		}
	}
	for _, p := range c.security.pairs() {
		add(own+"."+p[0], p[1])
	}
	return out
}

func renderText(pairs []Pair) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.Key)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderHTML(pairs []Pair) string {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "<meta name=\"%s\" content=\"%s\" />\n", html.EscapeString(p.Key), html.EscapeString(p.Value))
	}
	return b.String()
}

func renderJSON(pairs []Pair) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return "", err
		}
		val, err := json.Marshal(p.Value)
		if err != nil {
			return "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// Element rebuilds the XML tree of the component for its version.
func (c *Component) Element() *dom.Element {
	v := c.version
	el := dom.NewElement(c.Namespace(), c.Name())
	content := el
	if c.typ.wrapped(v) {
		content = el.AddChild(dom.NewElement(c.Namespace(), c.typ.Wrapper))
	}
	for i := range c.typ.Fields {
		f := &c.typ.Fields[i]
		val, ok := c.values[f.Key]
		switch f.Kind {
		case AttrField:
			if ok {
				el.SetAttr(v.Namespace(f.Vocab), f.ElementName(v), val)
			}
		case TextField:
			el.Text = val
		case ElementTextField:
			if ok {
				content.AddChild(dom.NewElement(v.Namespace(f.Vocab), f.ElementName(v))).Text = val
			}
		case ComponentField:
			for _, child := range c.children[f.Key] {
				content.AddChild(child.Element())
			}
		}
	}
	el.Attrs = append(el.Attrs, c.security.attrs(v)...)
	return el
}

func xmlName(space, local string) xml.Name {
	return xml.Name{Space: space, Local: local}
}
