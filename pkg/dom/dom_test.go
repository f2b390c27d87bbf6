package dom

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNS = "urn:us:mil:ces:metadata:ddms:5"
const ismNS = "urn:us:gov:ic:ism"

func TestParse_ResolvesNamespaces(t *testing.T) {
	doc := `<ddms:title xmlns:ddms="` + testNS + `" xmlns:ism="` + ismNS + `"
		ism:classification="U" ism:ownerProducer="USA">  DDMSence  </ddms:title>`

	el, err := ParseString(doc)
	require.NoError(t, err)

	assert.Equal(t, testNS, el.Name.Space)
	assert.Equal(t, "title", el.Name.Local)
	assert.Len(t, el.Attrs, 2, "namespace declarations must not be kept as attributes")

	v, ok := el.Attr(ismNS, "classification")
	assert.True(t, ok)
	assert.Equal(t, "U", v)

	_, ok = el.Attr(testNS, "classification")
	assert.False(t, ok)

	assert.Equal(t, "DDMSence", el.Value())
}

func TestParse_NestedChildrenInOrder(t *testing.T) {
	doc := `<a:root xmlns:a="urn:a"><a:x>1</a:x><a:y/><a:x>2</a:x></a:root>`

	el, err := ParseString(doc)
	require.NoError(t, err)
	require.Len(t, el.Children, 3)

	xs := el.ChildrenNamed("urn:a", "x")
	require.Len(t, xs, 2)
	assert.Equal(t, "1", xs[0].Value())
	assert.Equal(t, "2", xs[1].Value())
	assert.NotNil(t, el.Child("urn:a", "y"))
	assert.Nil(t, el.Child("urn:b", "y"))
}

func TestParse_Errors(t *testing.T) {
	_, err := ParseString("")
	assert.True(t, errors.Is(err, ErrNoRoot))

	_, err = ParseString("<a><b></a>")
	assert.Error(t, err)
}

func TestMarshal_DeclaresNamespacesOnRoot(t *testing.T) {
	root := NewElement(testNS, "resource")
	root.SetAttr(ismNS, "classification", "U")
	id := root.AddChild(NewElement(testNS, "identifier"))
	id.SetAttr(testNS, "qualifier", "URI")
	id.SetAttr(testNS, "value", `a "quoted" <value>`)

	out, err := Marshal(root, map[string]string{testNS: "ddms", ismNS: "ism"})
	require.NoError(t, err)

	expected := `<ddms:resource xmlns:ddms="` + testNS + `" xmlns:ism="` + ismNS + `" ism:classification="U">` +
		`<ddms:identifier ddms:qualifier="URI" ddms:value="a &#34;quoted&#34; &lt;value&gt;"/></ddms:resource>`
	assert.Equal(t, expected, string(out))
}

func TestMarshal_GeneratesMissingPrefixes(t *testing.T) {
	root := NewElement("urn:unknown", "thing")
	root.Text = "x"

	out, err := Marshal(root, nil)
	require.NoError(t, err)
	assert.Equal(t, `<ns1:thing xmlns:ns1="urn:unknown">x</ns1:thing>`, string(out))
}

func TestEncode_RoundTrip(t *testing.T) {
	root := NewElement(testNS, "temporalCoverage")
	root.AddChild(NewElement(testNS, "name")).Text = "Periods & Eras"
	root.AddChild(NewElement(testNS, "start")).Text = "1979-09-15"

	var buf bytes.Buffer
	enc := NewEncoder(&buf, map[string]string{testNS: "ddms"})
	enc.Indent("  ")
	require.NoError(t, enc.Encode(root))
	assert.True(t, strings.Contains(buf.String(), "\n  <ddms:name>Periods &amp; Eras</ddms:name>"))

	back, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, back.Children, 2)
	assert.Equal(t, "Periods & Eras", back.Children[0].Value())
	assert.Equal(t, "1979-09-15", back.Children[1].Value())
}

func TestEncode_NilRoot(t *testing.T) {
	_, err := Marshal(nil, nil)
	assert.ErrorIs(t, err, ErrNoRoot)
}
