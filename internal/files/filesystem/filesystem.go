package filesystem

import (
	"io/fs"
)

// FileInfo is fs.FileInfo under a local name.
type FileInfo = fs.FileInfo

// File is one entry found while walking a document directory.
type File interface {
	// Path returns the absolute path.
	Path() string

	// RelativePath returns the path relative to the walked directory.
	RelativePath() string

	Info() FileInfo

	// ReadContent returns the raw document bytes.
	ReadContent() ([]byte, error)
}

// Directory is a tree of documents.
type Directory interface {
	Path() string

	// Walk calls fn for the directory itself and every entry below it, in
	// lexical order. A non-nil return from fn stops the walk and is returned.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider opens directories and reads single documents.
type FileSystemProvider interface {
	Open(path string) (Directory, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
}

// OpenFile returns a File for a single path, so that a document named on the
// command line is handled the same way as one found by Walk.
func OpenFile(p FileSystemProvider, path string) (File, error) {
	info, err := p.Stat(path)
	if err != nil {
		return nil, err
	}
	return &providerFile{provider: p, path: path, info: info}, nil
}

type providerFile struct {
	provider FileSystemProvider
	path     string
	info     FileInfo
}

func (f *providerFile) Path() string                 { return f.path }
func (f *providerFile) RelativePath() string         { return f.path }
func (f *providerFile) Info() FileInfo               { return f.info }
func (f *providerFile) ReadContent() ([]byte, error) { return f.provider.ReadFile(f.path) }
