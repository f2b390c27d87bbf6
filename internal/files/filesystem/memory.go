package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

func (f *memoryFileInfo) Mode() fs.FileMode {
	if f.isDir {
		return 0755 | fs.ModeDir
	}
	return 0644
}

type memoryFile struct {
	absPath string
	relPath string
	content []byte
	info    *memoryFileInfo
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.info }

func (f *memoryFile) ReadContent() ([]byte, error) {
	return append([]byte(nil), f.content...), nil
}

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	for _, entry := range d.fs.entriesUnder(d.absPath) {
		rel := "."
		if entry.absPath != d.absPath {
			rel = strings.TrimPrefix(entry.absPath, strings.TrimSuffix(d.absPath, "/")+"/")
		}
		view := &memoryFile{absPath: entry.absPath, relPath: rel, content: entry.content, info: entry.info}

		var callbackErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					callbackErr = fmt.Errorf("walk callback panicked at %s: %v", entry.absPath, r)
				}
			}()
			callbackErr = fn(view, nil)
		}()
		if callbackErr != nil {
			return callbackErr
		}
	}
	return nil
}

// MemoryFileSystem is an in-memory FileSystemProvider for tests. Paths use
// forward slashes; relative paths resolve against the root.
type MemoryFileSystem struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	root  string
}

func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{files: make(map[string]*memoryFile), root: root}
	mfs.addDir(root)
	return mfs
}

// AddFile adds or replaces a document.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.AddFileWithTime(filePath, content, time.Now())
}

func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content string, modTime time.Time) {
	abs := mfs.resolve(filePath)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files[abs] = &memoryFile{
		absPath: abs,
		content: []byte(content),
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			modTime: modTime,
		},
	}
	for dir := path.Dir(abs); ; dir = path.Dir(dir) {
		if _, ok := mfs.files[dir]; !ok {
			mfs.files[dir] = &memoryFile{absPath: dir, info: &memoryFileInfo{name: path.Base(dir), isDir: true}}
		}
		if dir == mfs.root || dir == "/" || dir == "." {
			break
		}
	}
}

func (mfs *MemoryFileSystem) addDir(dir string) {
	mfs.files[dir] = &memoryFile{
		absPath: dir,
		info:    &memoryFileInfo{name: path.Base(dir), modTime: time.Now(), isDir: true},
	}
}

func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// entriesUnder returns base and everything below it, sorted by path.
func (mfs *MemoryFileSystem) entriesUnder(base string) []*memoryFile {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	prefix := strings.TrimSuffix(base, "/") + "/"
	var entries []*memoryFile
	for p, f := range mfs.files {
		if p == base || strings.HasPrefix(p, prefix) {
			entries = append(entries, f)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].absPath < entries[j].absPath })
	return entries
}

func (mfs *MemoryFileSystem) lookup(p string) (*memoryFile, bool) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()
	f, ok := mfs.files[mfs.resolve(p)]
	return f, ok
}

func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	f, ok := mfs.lookup(openPath)
	if !ok {
		return nil, fmt.Errorf("directory not found: %s", openPath)
	}
	if !f.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: f.absPath, fs: mfs}, nil
}

func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	f, ok := mfs.lookup(filePath)
	if !ok {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	if f.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return f.ReadContent()
}

func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	f, ok := mfs.lookup(statPath)
	if !ok {
		return nil, fmt.Errorf("path not found: %s", statPath)
	}
	return f.info, nil
}
