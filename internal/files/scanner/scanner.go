package scanner

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vvka-141/ddms/internal/checksum"
	"github.com/vvka-141/ddms/internal/files/filesystem"
	"github.com/vvka-141/ddms/pkg/ddms"
)

// Document is the outcome of reading one file.
type Document struct {
	// Path is relative to the scanned directory, with forward slashes and a
	// leading "./". Files named directly keep the path they were given.
	Path       string
	Name       string
	Directory  string
	Depth      int
	SizeBytes  int64
	ModifiedAt time.Time

	// Checksum is taken over the normalized document; ChecksumRaw over the
	// bytes as stored.
	Checksum    string
	ChecksumRaw string

	Component *ddms.Component
	Err       error
}

// Valid reports whether the document was read into a component.
func (d Document) Valid() bool { return d.Err == nil && d.Component != nil }

// Warnings returns the component's warnings, or nil for invalid documents.
func (d Document) Warnings() []ddms.Message {
	if d.Component == nil {
		return nil
	}
	return d.Component.Warnings()
}

// Result holds the documents of one scan in walk order.
type Result struct {
	Documents []Document
}

// Invalid returns the documents that failed to read.
func (r Result) Invalid() []Document {
	var out []Document
	for _, d := range r.Documents {
		if !d.Valid() {
			out = append(out, d)
		}
	}
	return out
}

// DuplicateDocuments groups the paths of documents with the same normalized
// checksum. Only groups with more than one path are returned, ordered by
// their first path.
func (r Result) DuplicateDocuments() [][]string {
	byChecksum := map[string][]string{}
	for _, d := range r.Documents {
		byChecksum[d.Checksum] = append(byChecksum[d.Checksum], d.Path)
	}
	var groups [][]string
	for _, paths := range byChecksum {
		if len(paths) > 1 {
			groups = append(groups, paths)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}

// DuplicateIdentifiers maps each identifier ("qualifier value") that appears
// in more than one valid document to the paths of those documents.
func (r Result) DuplicateIdentifiers() map[string][]string {
	seen := map[string][]string{}
	for _, d := range r.Documents {
		if !d.Valid() {
			continue
		}
		for _, id := range identifiers(d.Component) {
			paths := seen[id]
			if len(paths) > 0 && paths[len(paths)-1] == d.Path {
				continue
			}
			seen[id] = append(paths, d.Path)
		}
	}
	dups := map[string][]string{}
	for id, paths := range seen {
		if len(paths) > 1 {
			dups[id] = paths
		}
	}
	return dups
}

func identifiers(c *ddms.Component) []string {
	var out []string
	if c.Type() == ddms.Identifier {
		out = append(out, c.Get("qualifier")+" "+c.Get("value"))
	}
	for _, child := range c.Nested() {
		out = append(out, identifiers(child)...)
	}
	return out
}

// Scanner discovers DDMS documents and reads each through a ddms.Reader.
// A document that fails to read is recorded in the result; only filesystem
// failures stop a scan. Scanner is safe for concurrent use when its
// calculator and provider are.
type Scanner struct {
	calculator checksum.Calculator
	reader     *ddms.Reader
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner over the OS filesystem.
// Panics if calculator or reader is nil.
func NewScanner(calculator checksum.Calculator, reader *ddms.Reader) *Scanner {
	return NewScannerWithFS(calculator, reader, filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a scanner over a custom filesystem provider.
// Panics if any argument is nil.
func NewScannerWithFS(calculator checksum.Calculator, reader *ddms.Reader, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{calculator: calculator, reader: reader, fsProvider: fsProvider}
}

// ScanDirectory reads every file below sourcePath whose extension is
// ddms.DocumentExtension, case-insensitively.
func (s *Scanner) ScanDirectory(sourcePath string) (Result, error) {
	dir, err := s.fsProvider.Open(sourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open directory: %w", err)
	}

	var docs []Document
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() || !IsDocument(file.Path()) {
			return nil
		}
		doc, err := s.processFile(file, relativePath(file.RelativePath()))
		if err != nil {
			return fmt.Errorf("failed to process file %s: %w", file.RelativePath(), err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Documents: docs}, nil
}

// ScanPaths scans each path in order: directories recursively, files
// directly regardless of extension.
func (s *Scanner) ScanPaths(paths ...string) (Result, error) {
	var out Result
	for _, p := range paths {
		info, err := s.fsProvider.Stat(p)
		if err != nil {
			return Result{}, fmt.Errorf("failed to access %s: %w", p, err)
		}
		if info.IsDir() {
			res, err := s.ScanDirectory(p)
			if err != nil {
				return Result{}, err
			}
			out.Documents = append(out.Documents, res.Documents...)
			continue
		}
		file, err := filesystem.OpenFile(s.fsProvider, p)
		if err != nil {
			return Result{}, err
		}
		doc, err := s.processFile(file, filepath.ToSlash(p))
		if err != nil {
			return Result{}, fmt.Errorf("failed to process file %s: %w", p, err)
		}
		out.Documents = append(out.Documents, doc)
	}
	return out, nil
}

// IsDocument reports whether path has the document extension.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ddms.DocumentExtension)
}

func relativePath(rel string) string {
	p := filepath.ToSlash(rel)
	if !strings.HasPrefix(p, "./") {
		p = "./" + p
	}
	return p
}

func (s *Scanner) processFile(file filesystem.File, docPath string) (Document, error) {
	content, err := file.ReadContent()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}
	info := file.Info()

	directory := "./"
	if i := strings.LastIndex(docPath, "/"); i >= 0 {
		directory = docPath[:i+1]
	}
	// "./" = 0, "./2010/" = 1, "./2010/fall/" = 2
	depth := strings.Count(strings.TrimPrefix(directory, "./"), "/")

	doc := Document{
		Path:        docPath,
		Name:        info.Name(),
		Directory:   directory,
		Depth:       depth,
		SizeBytes:   info.Size(),
		ModifiedAt:  info.ModTime(),
		Checksum:    s.calculator.CalculateNormalized(content),
		ChecksumRaw: s.calculator.CalculateRaw(content),
	}
	doc.Component, doc.Err = s.reader.Read(bytes.NewReader(content))
	return doc, nil
}
