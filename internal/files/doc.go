// Package files groups the document discovery packages.
//
//   - filesystem: directory abstraction with OS and in-memory providers
//   - scanner: finds .xml documents, reads them and fingerprints them
//
// # Usage
//
//	reader := ddms.NewReader(nil)
//	s := scanner.NewScanner(checksum.New(), reader)
//	result, err := s.ScanPaths("./records")
//	for _, doc := range result.Invalid() {
//	    fmt.Println(doc.Path, doc.Err)
//	}
package files
