package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddms/internal/checksum"
	"github.com/vvka-141/ddms/internal/files/filesystem"
	"github.com/vvka-141/ddms/pkg/ddms"
)

const ns5 = `xmlns:ddms="urn:us:mil:ces:metadata:ddms:5"`

const (
	identifierDoc   = `<ddms:identifier ` + ns5 + ` ddms:qualifier="URI" ddms:value="urn:buri:ddmsence:testIdentifier"/>`
	identifierSwap  = `<ddms:identifier ` + ns5 + ` ddms:value="urn:buri:ddmsence:testIdentifier" ddms:qualifier="URI"/>`
	identifierSpace = "<ddms:identifier  " + ns5 + "\n   ddms:qualifier=\"URI\" ddms:value=\"urn:buri:ddmsence:testIdentifier\" />"
	keywordDoc      = `<ddms:keyword ` + ns5 + ` ddms:value="XML"/>`
	brokenDoc       = `<ddms:identifier ` + ns5 + ` ddms:value="x"/>`
)

func newTestScanner() (*Scanner, *filesystem.MemoryFileSystem) {
	fs := filesystem.NewMemoryFileSystem("/records")
	return NewScannerWithFS(checksum.New(), ddms.NewReader(nil), fs), fs
}

func TestNewScannerWithFS_NilArgs(t *testing.T) {
	calc := checksum.New()
	reader := ddms.NewReader(nil)
	fs := filesystem.NewMemoryFileSystem("/")

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil calculator", func() { NewScannerWithFS(nil, reader, fs) }},
		{"nil reader", func() { NewScannerWithFS(calc, nil, fs) }},
		{"nil filesystem", func() { NewScannerWithFS(calc, reader, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
}

func TestScanDirectory(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("identifier.xml", identifierDoc)
	fs.AddFile("2010/fall/keyword.XML", keywordDoc)
	fs.AddFile("notes.txt", "not a record")

	result, err := s.ScanDirectory("/records")
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)

	kw := result.Documents[0]
	assert.Equal(t, "./2010/fall/keyword.XML", kw.Path)
	assert.Equal(t, "keyword.XML", kw.Name)
	assert.Equal(t, "./2010/fall/", kw.Directory)
	assert.Equal(t, 2, kw.Depth)
	assert.True(t, kw.Valid())
	assert.Equal(t, "XML", kw.Component.Get("value"))

	id := result.Documents[1]
	assert.Equal(t, "./identifier.xml", id.Path)
	assert.Equal(t, "./", id.Directory)
	assert.Equal(t, 0, id.Depth)
	assert.Equal(t, int64(len(identifierDoc)), id.SizeBytes)
	assert.NotEmpty(t, id.Checksum)
	assert.NotEmpty(t, id.ChecksumRaw)
	assert.Equal(t, "5.0", id.Component.Version().String())
}

func TestScanDirectory_InvalidDocumentsAreRecorded(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("broken.xml", brokenDoc)
	fs.AddFile("malformed.xml", "<ddms:identifier")
	fs.AddFile("ok.xml", keywordDoc)

	result, err := s.ScanDirectory(".")
	require.NoError(t, err)
	require.Len(t, result.Documents, 3)

	invalid := result.Invalid()
	require.Len(t, invalid, 2)
	assert.Equal(t, "./broken.xml", invalid[0].Path)
	assert.True(t, errors.Is(invalid[0].Err, ddms.ErrMissingRequired))
	assert.Nil(t, invalid[0].Warnings())
	assert.True(t, errors.Is(invalid[1].Err, ddms.ErrMalformedXML))
}

func TestScanDirectory_Missing(t *testing.T) {
	s, _ := newTestScanner()
	_, err := s.ScanDirectory("/elsewhere")
	assert.Error(t, err)
}

func TestScanPaths_MixesFilesAndDirectories(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("single.record", keywordDoc)
	fs.AddFile("batch/a.xml", identifierDoc)

	result, err := s.ScanPaths("single.record", "batch")
	require.NoError(t, err)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "single.record", result.Documents[0].Path)
	assert.True(t, result.Documents[0].Valid())
	assert.Equal(t, "./a.xml", result.Documents[1].Path)

	_, err = s.ScanPaths("missing.xml")
	assert.Error(t, err)
}

func TestResult_DuplicateDocuments(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("a.xml", identifierDoc)
	fs.AddFile("b.xml", identifierSpace)
	fs.AddFile("c.xml", keywordDoc)

	result, err := s.ScanDirectory(".")
	require.NoError(t, err)

	assert.NotEqual(t, result.Documents[0].ChecksumRaw, result.Documents[1].ChecksumRaw)
	assert.Equal(t, [][]string{{"./a.xml", "./b.xml"}}, result.DuplicateDocuments())
}

func TestResult_DuplicateIdentifiers(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("a.xml", identifierDoc)
	fs.AddFile("b.xml", identifierSwap)
	fs.AddFile("c.xml", keywordDoc)
	fs.AddFile("d.xml", brokenDoc)

	result, err := s.ScanDirectory(".")
	require.NoError(t, err)

	assert.Empty(t, result.DuplicateDocuments())
	assert.Equal(t, map[string][]string{
		"URI urn:buri:ddmsence:testIdentifier": {"./a.xml", "./b.xml"},
	}, result.DuplicateIdentifiers())
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("a.xml"))
	assert.True(t, IsDocument("dir/A.XML"))
	assert.False(t, IsDocument("a.xsd"))
	assert.False(t, IsDocument("xml"))
}
