package ddms_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddms/pkg/ddms"
	"github.com/vvka-141/ddms/pkg/dom"
)

const (
	ddms5NS  = "urn:us:mil:ces:metadata:ddms:5"
	ddms4NS  = "urn:us:mil:ces:metadata:ddms:4"
	ddms31NS = "http://metadata.dod.mil/mdr/ns/DDMS/3.1/"
	ism      = "urn:us:gov:ic:ism"
)

func parse(t *testing.T, doc string) *dom.Element {
	t.Helper()
	el, err := dom.ParseString(doc)
	require.NoError(t, err)
	return el
}

func TestIdentifier_FromElementRendersText(t *testing.T) {
	v := mustVersion(t, "5.0")
	el := parse(t, `<ddms:identifier xmlns:ddms="`+ddms5NS+`" ddms:qualifier="URI" ddms:value="urn:buri:ddmsence:testIdentifier"/>`)

	c, err := ddms.FromElement(v, ddms.Identifier, el)
	require.NoError(t, err)

	assert.Equal(t, "identifier.qualifier: URI\nidentifier.value: urn:buri:ddmsence:testIdentifier\n", c.ToText())
	assert.Equal(t, "URI", c.Get("qualifier"))
	assert.Empty(t, c.Warnings())
}

func TestIdentifier_MissingQualifier(t *testing.T) {
	v := mustVersion(t, "5.0")
	el := parse(t, `<ddms:identifier xmlns:ddms="`+ddms5NS+`" ddms:value="urn:buri:ddmsence:testIdentifier"/>`)

	_, err := ddms.FromElement(v, ddms.Identifier, el)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "qualifier attribute is required.")

	ve, ok := ddms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "/ddms:identifier", ve.Locator)
}

func TestIdentifier_InvalidURI(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.Identifier, ddms.Data{Values: map[string]string{"qualifier": "not a uri", "value": "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrInvalidFormat))
}

func TestFromElement_WrongName(t *testing.T) {
	v := mustVersion(t, "5.0")

	tests := []struct {
		name string
		doc  string
	}{
		{"wrong local name", `<ddms:title xmlns:ddms="` + ddms5NS + `">x</ddms:title>`},
		{"wrong namespace", `<ddms:identifier xmlns:ddms="` + ddms4NS + `" ddms:qualifier="URI" ddms:value="x"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ddms.FromElement(v, ddms.Identifier, parse(t, tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ddms.ErrWrongName))
			ve, _ := ddms.AsValidationError(err)
			assert.Equal(t, "/ddms:identifier", ve.Locator)
		})
	}
}

func TestNew_RejectsUnknownKeys(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.Identifier, ddms.Data{Values: map[string]string{"bogus": "x"}})
	assert.True(t, errors.Is(err, ddms.ErrInvalidFormat))

	_, err = ddms.New(nil, ddms.Identifier, ddms.Data{})
	assert.True(t, errors.Is(err, ddms.ErrNoVersionSelected))
}

func TestNew_RejectsChildOfWrongType(t *testing.T) {
	v := mustVersion(t, "5.0")
	kw, err := ddms.New(v, ddms.Keyword, ddms.Data{Values: map[string]string{"value": "XML"}})
	require.NoError(t, err)

	_, err = ddms.New(v, ddms.SubjectCoverage, ddms.Data{Children: map[string][]*ddms.Component{"category": {kw}}})
	assert.True(t, errors.Is(err, ddms.ErrWrongName))
}

func TestNew_ChildFromOtherVersion(t *testing.T) {
	v4 := mustVersion(t, "4.1")
	v5 := mustVersion(t, "5.0")
	kw, err := ddms.New(v4, ddms.Keyword, ddms.Data{Values: map[string]string{"value": "XML"}})
	require.NoError(t, err)

	_, err = ddms.New(v5, ddms.SubjectCoverage, ddms.Data{Children: map[string][]*ddms.Component{"keyword": {kw}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrCrossField))
	assert.Contains(t, err.Error(), "A child component, ddms:keyword, is using a different version of DDMS.")
}

func TestCountryCode_RenamedAttributesIn50(t *testing.T) {
	v5 := mustVersion(t, "5.0")
	v4 := mustVersion(t, "4.1")

	c, err := ddms.FromElement(v5, ddms.CountryCode, parse(t,
		`<ddms:countryCode xmlns:ddms="`+ddms5NS+`" ddms:codespace="urn:us:gov:ic:cvenum:ism:country" ddms:code="USA"/>`))
	require.NoError(t, err)
	assert.Equal(t, "USA", c.Get("value"))
	assert.Equal(t, "countryCode.codespace: urn:us:gov:ic:cvenum:ism:country\ncountryCode.code: USA\n", c.ToText())

	_, err = ddms.FromElement(v5, ddms.CountryCode, parse(t,
		`<ddms:countryCode xmlns:ddms="`+ddms5NS+`" ddms:qualifier="urn:x" ddms:value="USA"/>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "codespace attribute is required.")

	_, err = ddms.FromElement(v4, ddms.CountryCode, parse(t,
		`<ddms:countryCode xmlns:ddms="`+ddms4NS+`" ddms:value="USA"/>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qualifier attribute is required.")
}

func TestSubDivisionCode_NotBefore401(t *testing.T) {
	v := mustVersion(t, "3.1")

	_, err := ddms.New(v, ddms.SubDivisionCode, ddms.Data{Values: map[string]string{"qualifier": "ISO-3166-2", "value": "US-VA"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrUnsupportedVersion))
	assert.Contains(t, err.Error(), "The subDivisionCode element cannot be used until DDMS 4.0.1 or later.")
}

func TestTemporalCoverage_EndBeforeStart(t *testing.T) {
	v := mustVersion(t, "5.0")

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"end before start", "2010-12-31", "2010-01-01", true},
		{"equal", "2010-01-01", "2010-01-01", false},
		{"later", "2010-01-01", "2011", false},
		{"placeholder start", ddms.Unknown, "2010-01-01", false},
		{"not applicable end", "2010-01-01", ddms.NotApplicable, false},
		{"datetime", "2010-01-01T12:00:00Z", "2010-01-01T13:00:00+00:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ddms.New(v, ddms.TemporalCoverage, ddms.Data{Values: map[string]string{"start": tt.start, "end": tt.end}})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ddms.ErrCrossField))
			ve, _ := ddms.AsValidationError(err)
			assert.Equal(t, "/ddms:temporalCoverage", ve.Locator)
			assert.Equal(t, "The end date cannot be before the start date.", ve.Message)
		})
	}
}

func TestTemporalCoverage_InvalidDate(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.TemporalCoverage, ddms.Data{Values: map[string]string{"start": "yesterday", "end": "2010"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrInvalidFormat))
	assert.Contains(t, err.Error(), "start")
}

func TestTemporalCoverage_BlankNameDefaults(t *testing.T) {
	v := mustVersion(t, "3.1")
	el := parse(t, `<ddms:temporalCoverage xmlns:ddms="`+ddms31NS+`"><ddms:TimePeriod>`+
		`<ddms:name/><ddms:start>2010</ddms:start><ddms:end>2011</ddms:end>`+
		`</ddms:TimePeriod></ddms:temporalCoverage>`)

	c, err := ddms.FromElement(v, ddms.TemporalCoverage, el)
	require.NoError(t, err)
	assert.Equal(t, ddms.DefaultExtendedValue, c.Get("name"))

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, ddms.WarningMessage, warnings[0].Kind)
	assert.Equal(t, "/ddms:temporalCoverage", warnings[0].Locator)
	assert.Contains(t, warnings[0].Text, `Defaulting to "Unknown".`)
}

func TestTemporalCoverage_MissingWrapper(t *testing.T) {
	v := mustVersion(t, "3.1")
	el := parse(t, `<ddms:temporalCoverage xmlns:ddms="`+ddms31NS+`">`+
		`<ddms:start>2010</ddms:start><ddms:end>2011</ddms:end></ddms:temporalCoverage>`)

	_, err := ddms.FromElement(v, ddms.TemporalCoverage, el)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "Exactly 1 TimePeriod element must exist.")
}

func TestSubjectCoverage_NeedsKeywordOrCategory(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.SubjectCoverage, ddms.Data{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "At least 1 keyword or category must exist.")
}

func TestNestedErrorLocator(t *testing.T) {
	v := mustVersion(t, "5.0")
	el := parse(t, `<ddms:subjectCoverage xmlns:ddms="`+ddms5NS+`"><ddms:keyword/></ddms:subjectCoverage>`)

	_, err := ddms.FromElement(v, ddms.SubjectCoverage, el)
	require.Error(t, err)
	ve, ok := ddms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "/ddms:subjectCoverage/ddms:keyword", ve.Locator)
	assert.Equal(t, "value attribute is required.", ve.Message)
}

func TestNestedErrorLocator_IncludesWrapper(t *testing.T) {
	v := mustVersion(t, "3.1")
	el := parse(t, `<ddms:subjectCoverage xmlns:ddms="`+ddms31NS+`"><ddms:Subject><ddms:keyword/></ddms:Subject></ddms:subjectCoverage>`)

	_, err := ddms.FromElement(v, ddms.SubjectCoverage, el)
	require.Error(t, err)
	ve, ok := ddms.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "/ddms:subjectCoverage/ddms:Subject/ddms:keyword", ve.Locator)
}

func TestNew_CopiesInput(t *testing.T) {
	v := mustVersion(t, "5.0")
	d := ddms.Data{
		Values:   map[string]string{"value": "XML"},
		Security: &ddms.SecurityAttributes{Classification: "U", OwnerProducer: []string{"USA"}},
	}

	c, err := ddms.New(v, ddms.Keyword, d)
	require.NoError(t, err)

	d.Values["value"] = "JSON"
	d.Security.OwnerProducer[0] = "GBR"
	c.Security().OwnerProducer[0] = "CAN"

	assert.Equal(t, "XML", c.Get("value"))
	assert.Equal(t, []string{"USA"}, c.Security().OwnerProducer)
}

func TestDates_GatedAttributes(t *testing.T) {
	v30 := mustVersion(t, "3.0")
	v31 := mustVersion(t, "3.1")

	_, err := ddms.New(v30, ddms.Dates, ddms.Data{Values: map[string]string{"approvedOn": "2010"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrWrongName))
	assert.Contains(t, err.Error(), "The approvedOn attribute cannot be used until DDMS 3.1 or later.")

	_, err = ddms.New(v31, ddms.Dates, ddms.Data{Values: map[string]string{"approvedOn": "2010"}})
	assert.NoError(t, err)
}

func TestDates_EmptyWarning(t *testing.T) {
	v := mustVersion(t, "5.0")

	c, err := ddms.New(v, ddms.Dates, ddms.Data{})
	require.NoError(t, err)
	require.Len(t, c.Warnings(), 1)
	assert.Equal(t, "A completely empty ddms:dates element was found.", c.Warnings()[0].Text)
}

func TestLanguage_RulesAndWarnings(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.Language, ddms.Data{Values: map[string]string{"value": "en"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A qualifier must exist when a value is present.")

	c, err := ddms.New(v, ddms.Language, ddms.Data{Values: map[string]string{"qualifier": "ISO 639-1"}})
	require.NoError(t, err)
	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0].Text, "without an accompanying value")
}

func TestTitle_RequiresSecurity(t *testing.T) {
	v := mustVersion(t, "5.0")

	_, err := ddms.New(v, ddms.Title, ddms.Data{Values: map[string]string{"value": "DDMSence"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "classification attribute is required.")

	_, err = ddms.New(v, ddms.Title, ddms.Data{
		Values:   map[string]string{"value": "DDMSence"},
		Security: &ddms.SecurityAttributes{Classification: "U"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ownerProducer attribute is required.")

	c, err := ddms.New(v, ddms.Title, ddms.Data{
		Values:   map[string]string{"value": "  DDMSence  "},
		Security: &ddms.SecurityAttributes{Classification: "U", OwnerProducer: []string{"USA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "DDMSence", c.Get("value"))
	assert.Equal(t, "title: DDMSence\ntitle.classification: U\ntitle.ownerProducer: USA\n", c.ToText())
}

func TestSecurityAttributes_Gating(t *testing.T) {
	v2 := mustVersion(t, "2.0")
	v4 := mustVersion(t, "4.1")

	sec := &ddms.SecurityAttributes{Classification: "U", OwnerProducer: []string{"USA"}}
	_, err := ddms.New(v4, ddms.Keyword, ddms.Data{Values: map[string]string{"value": "XML"}, Security: sec})
	assert.NoError(t, err)

	_, err = ddms.New(mustVersion(t, "3.1"), ddms.Keyword, ddms.Data{Values: map[string]string{"value": "XML"}, Security: sec})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrWrongName))

	aea := &ddms.SecurityAttributes{Classification: "U", OwnerProducer: []string{"USA"}, AtomicEnergyMarkings: []string{"RD"}}
	_, err = ddms.New(v2, ddms.Title, ddms.Data{Values: map[string]string{"value": "x"}, Security: aea})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ism:atomicEnergyMarkings attribute cannot be used until DDMS 4.0.1 or later.")

	bad := &ddms.SecurityAttributes{Classification: "Z", OwnerProducer: []string{"USA"}}
	_, err = ddms.New(v4, ddms.Title, ddms.Data{Values: map[string]string{"value": "x"}, Security: bad})
	assert.True(t, errors.Is(err, ddms.ErrInvalidFormat))
}

func TestSecurityAttributes_SetGet(t *testing.T) {
	s := &ddms.SecurityAttributes{}
	assert.True(t, s.IsEmpty())

	require.NoError(t, s.Set("ownerProducer", " USA  AUS "))
	assert.Equal(t, []string{"USA", "AUS"}, s.OwnerProducer)
	assert.Equal(t, "USA AUS", s.Get("ownerProducer"))
	assert.False(t, s.IsEmpty())

	assert.Error(t, s.Set("bogus", "x"))

	var empty *ddms.SecurityAttributes
	assert.True(t, empty.Equal(&ddms.SecurityAttributes{}))
	assert.False(t, empty.Equal(s))
}

func TestComponent_EqualIgnoresWhitespace(t *testing.T) {
	v := mustVersion(t, "5.0")
	a, err := ddms.FromElement(v, ddms.Keyword, parse(t, `<ddms:keyword xmlns:ddms="`+ddms5NS+`" ddms:value="XML"/>`))
	require.NoError(t, err)
	b, err := ddms.FromElement(v, ddms.Keyword, parse(t, `<ddms:keyword xmlns:ddms="`+ddms5NS+`" ddms:value="  XML "/>`))
	require.NoError(t, err)
	c, err := ddms.New(mustVersion(t, "4.1"), ddms.Keyword, ddms.Data{Values: map[string]string{"value": "XML"}})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "different versions are never equal")
	assert.False(t, a.Equal(nil))
}

func TestResource_GatedAttributesIn20(t *testing.T) {
	v := mustVersion(t, "2.0")

	b := newResourceBuilder(v)
	b.Set("resourceElement", "true")

	_, err := b.Commit(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrWrongName))
	assert.Contains(t, err.Error(), "The ism:resourceElement attribute cannot be used until DDMS 3.0 or later.")
}

func TestResource_NTKVersionRequiredIn41(t *testing.T) {
	v := mustVersion(t, "4.1")

	b := newResourceBuilder(v)
	b.Set("ntkDESVersion", "")

	_, err := b.Commit(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ddms.ErrMissingRequired))
	assert.Contains(t, err.Error(), "ntk:DESVersion attribute is required.")
}

func TestResource_WarningsCarryFullLocator(t *testing.T) {
	v := mustVersion(t, "5.0")

	b := newResourceBuilder(v)
	b.Children("temporalCoverage")[0].Set("name", "")

	c, err := b.Commit(v)
	require.NoError(t, err)

	var found bool
	for _, w := range c.Warnings() {
		if w.Locator == "/ddms:resource/ddms:temporalCoverage" && strings.Contains(w.Text, "Defaulting") {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", c.Warnings())
}

func TestComponent_NestedIsFieldOrdered(t *testing.T) {
	v := mustVersion(t, "5.0")
	c, err := newResourceBuilder(v).Commit(v)
	require.NoError(t, err)

	nested := c.Nested()
	require.NotEmpty(t, nested)
	assert.Equal(t, "identifier", nested[0].Name())
	assert.Equal(t, "security", nested[len(nested)-1].Name())
	assert.Len(t, c.Children("subjectCoverage")[0].Children("keyword"), 2)
}
