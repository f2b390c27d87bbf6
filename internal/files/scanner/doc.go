// Package scanner finds DDMS documents in a directory tree and reads each one.
//
// Every document gets two fingerprints from the checksum package: one over
// the stored bytes and one over the normalized XML. The normalized checksum
// and the identifiers inside valid records drive duplicate detection in
// the validate command.
package scanner
