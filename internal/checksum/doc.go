// Package checksum provides document content hashing with normalization support.
//
// Two checksums are computed per document:
//
//   - Raw checksum: Hash of the exact file content (detects all changes)
//   - Normalized checksum: Hash after removing comments, processing
//     instructions and insignificant whitespace
//
// Two files with the same normalized checksum are the same record written
// out differently; the directory scanner uses this to report duplicates.
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(content)
//	normalized := calculator.CalculateNormalized(content)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
