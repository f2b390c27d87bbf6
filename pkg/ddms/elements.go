package ddms

import (
	"fmt"

	"github.com/vvka-141/ddms/pkg/dom"
)

// Placeholder tokens temporalCoverage accepts instead of a date.
const (
	NotApplicable = "Not Applicable"
	Unknown       = DefaultExtendedValue
)

func attr(key string, min int) Field {
	return Field{Key: key, Kind: AttrField, Vocab: VocabDDMS, Name: key, Min: min}
}

func child(key string, t *Type, min, max int) Field {
	return Field{Key: key, Kind: ComponentField, Type: t, Min: min, Max: max}
}

var textValue = Field{Key: "value", Kind: TextField, Vocab: VocabDDMS}

// Identifier is ddms:identifier, a unique qualifier/value pair.
var Identifier = &Type{
	Name:  "identifier",
	Vocab: VocabDDMS,
	Fields: []Field{
		withFormat(attr("qualifier", 1), URIValue),
		attr("value", 1),
	},
}

// Title is ddms:title.
var Title = &Type{
	Name:     "title",
	Vocab:    VocabDDMS,
	Fields:   []Field{required(textValue)},
	Security: SecurityPolicy{Allowed: true, Required: true},
}

// Subtitle is ddms:subtitle.
var Subtitle = &Type{
	Name:     "subtitle",
	Vocab:    VocabDDMS,
	Fields:   []Field{textValue},
	Security: SecurityPolicy{Allowed: true, Required: true},
	Warnings: []WarningRule{emptyTextWarning("subtitle")},
}

// Description is ddms:description.
var Description = &Type{
	Name:     "description",
	Vocab:    VocabDDMS,
	Fields:   []Field{textValue},
	Security: SecurityPolicy{Allowed: true, Required: true},
	Warnings: []WarningRule{emptyTextWarning("description")},
}

// Language is ddms:language.
var Language = &Type{
	Name:   "language",
	Vocab:  VocabDDMS,
	Fields: []Field{attr("qualifier", 0), attr("value", 0)},
	Rules: []Rule{func(c *Component) error {
		if c.Get("value") != "" && c.Get("qualifier") == "" {
			return Failf(ErrMissingRequired, "A qualifier must exist when a value is present.")
		}
		return nil
	}},
	Warnings: []WarningRule{func(c *Component) []string {
		switch {
		case c.Get("qualifier") == "" && c.Get("value") == "":
			return []string{"Neither a qualifier nor a value was set on this language."}
		case c.Get("value") == "":
			return []string{"A qualifier has been set without an accompanying value attribute."}
		}
		return nil
	}},
}

// Dates is ddms:dates.
var Dates = &Type{
	Name:  "dates",
	Vocab: VocabDDMS,
	Fields: []Field{
		withFormat(attr("created", 0), DateValue),
		withFormat(attr("posted", 0), DateValue),
		withFormat(attr("validTil", 0), DateValue),
		withFormat(attr("infoCutOff", 0), DateValue),
		since(withFormat(attr("approvedOn", 0), DateValue), "3.1"),
		since(withFormat(attr("receivedOn", 0), DateValue), "4.0.1"),
	},
	Warnings: []WarningRule{func(c *Component) []string {
		if len(c.values) == 0 {
			return []string{fmt.Sprintf("A completely empty %s element was found.", c.QName())}
		}
		return nil
	}},
}

// Keyword is ddms:keyword.
var Keyword = &Type{
	Name:     "keyword",
	Vocab:    VocabDDMS,
	Fields:   []Field{attr("value", 1)},
	Security: SecurityPolicy{Allowed: true, Since: "4.0.1"},
}

// Category is ddms:category.
var Category = &Type{
	Name:  "category",
	Vocab: VocabDDMS,
	Fields: []Field{
		withFormat(attr("qualifier", 0), URIValue),
		attr("code", 0),
		attr("label", 1),
	},
	Security: SecurityPolicy{Allowed: true, Since: "4.0.1"},
}

// SubjectCoverage is ddms:subjectCoverage. Before 4.0.1 its content sits in
// a ddms:Subject element.
var SubjectCoverage = &Type{
	Name:          "subjectCoverage",
	Vocab:         VocabDDMS,
	Wrapper:       "Subject",
	WrapperBefore: "4.0.1",
	Fields: []Field{
		child("keyword", Keyword, 0, 0),
		child("category", Category, 0, 0),
	},
	Security: SecurityPolicy{Allowed: true, Since: "3.0"},
	Rules: []Rule{func(c *Component) error {
		if len(c.children["keyword"])+len(c.children["category"]) == 0 {
			return Failf(ErrMissingRequired, "At least 1 keyword or category must exist.")
		}
		return nil
	}},
}

var codeRenames = map[string][]Rename{
	"qualifier": {{Since: "5.0", Name: "codespace"}},
	"value":     {{Since: "5.0", Name: "code"}},
}

func codeType(name, sinceVersion string) *Type {
	q, val := attr("qualifier", 1), attr("value", 1)
	q.Renames, val.Renames = codeRenames["qualifier"], codeRenames["value"]
	return &Type{Name: name, Vocab: VocabDDMS, Since: sinceVersion, Fields: []Field{q, val}}
}

// CountryCode is ddms:countryCode. Its attributes are renamed to codespace
// and code in 5.0; the field keys stay qualifier and value.
var CountryCode = codeType("countryCode", "")

// SubDivisionCode is ddms:subDivisionCode, added in 4.0.1.
var SubDivisionCode = codeType("subDivisionCode", "4.0.1")

// GeographicIdentifier is ddms:geographicIdentifier.
var GeographicIdentifier = &Type{
	Name:  "geographicIdentifier",
	Vocab: VocabDDMS,
	Fields: []Field{
		{Key: "name", Kind: ElementTextField, Vocab: VocabDDMS, Name: "name"},
		{Key: "region", Kind: ElementTextField, Vocab: VocabDDMS, Name: "region"},
		child("countryCode", CountryCode, 0, 1),
		since(child("subDivisionCode", SubDivisionCode, 0, 1), "4.0.1"),
	},
	Rules: []Rule{func(c *Component) error {
		if len(c.values) == 0 && len(c.children["countryCode"])+len(c.children["subDivisionCode"]) == 0 {
			return Failf(ErrMissingRequired, "At least 1 of name, region, countryCode or subDivisionCode must exist.")
		}
		return nil
	}},
}

// GeospatialCoverage is ddms:geospatialCoverage. Before 4.0.1 its content
// sits in a ddms:GeospatialExtent element.
var GeospatialCoverage = &Type{
	Name:          "geospatialCoverage",
	Vocab:         VocabDDMS,
	Wrapper:       "GeospatialExtent",
	WrapperBefore: "4.0.1",
	Fields:        []Field{child("geographicIdentifier", GeographicIdentifier, 1, 1)},
	Security:      SecurityPolicy{Allowed: true, Since: "3.0"},
}

// TemporalCoverage is ddms:temporalCoverage. Before 4.0.1 its content sits
// in a ddms:TimePeriod element.
var TemporalCoverage = &Type{
	Name:          "temporalCoverage",
	Vocab:         VocabDDMS,
	Wrapper:       "TimePeriod",
	WrapperBefore: "4.0.1",
	Fields: []Field{
		{Key: "name", Kind: ElementTextField, Vocab: VocabDDMS, Name: "name", Default: DefaultExtendedValue},
		{Key: "start", Kind: ElementTextField, Vocab: VocabDDMS, Name: "start", Min: 1,
			Format: DateValue, Tokens: []string{NotApplicable, Unknown}},
		{Key: "end", Kind: ElementTextField, Vocab: VocabDDMS, Name: "end", Min: 1,
			Format: DateValue, Tokens: []string{NotApplicable, Unknown}},
	},
	Security: SecurityPolicy{Allowed: true, Since: "3.0"},
	Rules: []Rule{func(c *Component) error {
		start, okStart := parseDate(c.Get("start"))
		end, okEnd := parseDate(c.Get("end"))
		if okStart && okEnd && end.Before(start) {
			return Failf(ErrCrossField, "The end date cannot be before the start date.")
		}
		return nil
	}},
}

// Security is ddms:security. It carries the resource-level markings.
var Security = &Type{
	Name:  "security",
	Vocab: VocabDDMS,
	Fields: []Field{
		{Key: "excludeFromRollup", Kind: AttrField, Vocab: VocabISM, Name: "excludeFromRollup",
			Min: 1, Since: "3.0", Format: TokenValue, Tokens: []string{"true"}},
	},
	Security: SecurityPolicy{Allowed: true, Required: true},
}

// Resource is the root element of a DDMS record: ddms:Resource, renamed
// ddms:resource in 5.0.
var Resource = &Type{
	Name:    "Resource",
	Renames: []Rename{{Since: "5.0", Name: "resource"}},
	Vocab:   VocabDDMS,
	Fields: []Field{
		{Key: "resourceElement", Kind: AttrField, Vocab: VocabISM, Name: "resourceElement",
			Min: 1, Since: "3.0", Format: BooleanValue},
		{Key: "createDate", Kind: AttrField, Vocab: VocabISM, Name: "createDate",
			Min: 1, Since: "3.0", Format: DateValue},
		{Key: "DESVersion", Kind: AttrField, Vocab: VocabISM, Name: "DESVersion",
			Min: 1, Since: "3.0", Format: IntegerValue},
		{Key: "ntkDESVersion", Kind: AttrField, Vocab: VocabNTK, Name: "DESVersion", Label: "ntkDESVersion",
			Min: 1, Since: "4.1", Format: IntegerValue},
		child("identifier", Identifier, 1, 0),
		child("title", Title, 1, 0),
		child("subtitle", Subtitle, 0, 0),
		child("description", Description, 0, 1),
		child("language", Language, 0, 0),
		child("dates", Dates, 0, 1),
		child("subjectCoverage", SubjectCoverage, 1, 0),
		child("geospatialCoverage", GeospatialCoverage, 0, 0),
		child("temporalCoverage", TemporalCoverage, 0, 0),
		child("security", Security, 1, 1),
	},
	Security: SecurityPolicy{Allowed: true, Since: "3.0", Required: true},
}

var catalog = []*Type{
	Identifier, Title, Subtitle, Description, Language, Dates, Keyword, Category,
	SubjectCoverage, CountryCode, SubDivisionCode, GeographicIdentifier,
	GeospatialCoverage, TemporalCoverage, Security, Resource,
}

// Types returns every element type the package knows.
func Types() []*Type { return append([]*Type(nil), catalog...) }

// LookupType finds the type whose qualified name in v matches el.
func LookupType(v *Version, el *dom.Element) (*Type, bool) {
	for _, t := range catalog {
		if el.Name.Local == t.ElementName(v) && el.Name.Space == v.Namespace(t.Vocab) {
			return t, true
		}
	}
	return nil, false
}

// TypeByName finds a type by its name in v, e.g. "countryCode".
func TypeByName(v *Version, name string) (*Type, bool) {
	for _, t := range catalog {
		if t.ElementName(v) == name || t.Name == name {
			return t, true
		}
	}
	return nil, false
}

func required(f Field) Field {
	f.Min = 1
	return f
}

func withFormat(f Field, format ValueFormat) Field {
	f.Format = format
	return f
}

func since(f Field, version string) Field {
	f.Since = version
	return f
}

func emptyTextWarning(name string) WarningRule {
	return func(c *Component) []string {
		if c.Get("value") == "" {
			return []string{fmt.Sprintf("A %s element was found with no %s value.", c.QName(), name)}
		}
		return nil
	}
}
