package ddms

// FieldKind says where a field lives in the XML shape of a component.
type FieldKind int

const (
	// AttrField is an attribute on the component's element.
	AttrField FieldKind = iota
	// TextField is the character content of the component's element.
	TextField
	// ElementTextField is a child element holding a single text value.
	ElementTextField
	// ComponentField is a nested component, possibly repeated.
	ComponentField
)

// ValueFormat is the lexical rule applied to a non-blank scalar value.
type ValueFormat int

const (
	AnyValue ValueFormat = iota
	DateValue
	URIValue
	IntegerValue
	BooleanValue
	TokenValue
)

// Rename changes a name from a given version onwards.
type Rename struct {
	Since string
	Name  string
}

// Field describes one attribute, value or child of a component type.
type Field struct {
	// Key names the field in Data, Builder and Component.Value. It does not
	// change across versions even when the XML name does.
	Key  string
	Kind FieldKind

	// Vocab selects the namespace of attributes and child elements.
	Vocab   string
	Name    string
	Renames []Rename

	// Label overrides the rendered key when two fields share an XML name.
	Label string

	// Type is the nested component type of a ComponentField.
	Type *Type

	// Min is the minimum occurrence; 1 makes a scalar required. Max bounds
	// ComponentField occurrences, 0 meaning unbounded.
	Min, Max int

	// Since and Until bound the versions in which the field may appear.
	Since, Until string

	Format ValueFormat
	// Tokens lists the allowed values of a TokenValue field, or extra
	// non-date literals accepted by a DateValue field.
	Tokens []string

	// Default replaces a present but blank value, with a warning.
	Default string
}

// ElementName returns the XML local name of the field for v.
func (f *Field) ElementName(v *Version) string {
	if f.Kind == ComponentField {
		return f.Type.ElementName(v)
	}
	return renamed(v, f.Name, f.Renames)
}

// label is the key used in flattened output.
func (f *Field) label(v *Version) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ElementName(v)
}

// Allowed reports whether the field may appear in v.
func (f *Field) Allowed(v *Version) bool {
	return inRange(v, f.Since, f.Until)
}

func (f *Field) scalar() bool {
	return f.Kind != ComponentField
}

// SecurityPolicy controls the security attribute group on a type.
type SecurityPolicy struct {
	Allowed bool
	// Since is the first version in which the attributes may appear.
	Since string
	// Required makes classification and ownerProducer mandatory wherever the
	// attributes are allowed.
	Required bool
}

func (p SecurityPolicy) allowedIn(v *Version) bool {
	return p.Allowed && inRange(v, p.Since, "")
}

// Rule is a per-type structural check run after the generic field rules.
// It returns nil or an error built with Failf.
type Rule func(c *Component) error

// WarningRule returns non-fatal findings for a valid component.
type WarningRule func(c *Component) []string

// Type is the schema descriptor of one DDMS element. Element types are data:
// the generic engine parses, validates and renders any Type.
type Type struct {
	Name    string
	Renames []Rename
	Vocab   string

	// Wrapper is an intermediate element holding all child fields in
	// versions before WrapperBefore. Attributes stay on the outer element.
	Wrapper       string
	WrapperBefore string

	// Since is the first version in which the type exists.
	Since string

	Fields   []Field
	Security SecurityPolicy
	Rules    []Rule
	Warnings []WarningRule
}

// ElementName returns the XML local name of the type for v.
func (t *Type) ElementName(v *Version) string {
	return renamed(v, t.Name, t.Renames)
}

// QName returns the prefixed element name for v.
func (t *Type) QName(v *Version) string {
	return v.QName(t.Vocab, t.ElementName(v))
}

// Available reports whether the type exists in v.
func (t *Type) Available(v *Version) bool {
	return inRange(v, t.Since, "")
}

// Field looks up a field by key.
func (t *Type) Field(key string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Key == key {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

func (t *Type) wrapped(v *Version) bool {
	return t.Wrapper != "" && v.Before(t.WrapperBefore)
}

// contentLocator is the path that child locators are rooted at, including
// the wrapper element in versions that have one.
func (t *Type) contentLocator(v *Version) string {
	loc := "/" + t.QName(v)
	if t.wrapped(v) {
		loc += "/" + v.QName(t.Vocab, t.Wrapper)
	}
	return loc
}

func (t *Type) String() string { return t.Name }

func renamed(v *Version, name string, renames []Rename) string {
	for _, r := range renames {
		if v.AtLeast(r.Since) {
			name = r.Name
		}
	}
	return name
}

func inRange(v *Version, since, until string) bool {
	if since != "" && v.Before(since) {
		return false
	}
	if until != "" && semverOf(until).LessThan(v.sem) {
		return false
	}
	return true
}
