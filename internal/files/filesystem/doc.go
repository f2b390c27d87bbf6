// Package filesystem abstracts the document directories read by the scanner.
//
// OSFileSystem reads from disk; MemoryFileSystem backs tests. Both walk in
// lexical path order so scan results are deterministic.
package filesystem
