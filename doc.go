// Package namestore provides a small content-addressable store that keeps
// text under human-chosen names.
//
// Each distinct payload is written once, to a file named by the hex SHA-256
// of its bytes. A flat JSON index, contentMap.json, maps names to those
// digests. Storing the same content under several names costs one blob;
// storing new content under an existing name re-points the name.
//
// Directory layout:
//
//	<dir>/contentMap.json   {"filename1":"<digest>", ...}
//	<dir>/<digest>          raw payload
//
// Basic usage:
//
//	s, _ := namestore.Open("./topdir")
//
//	// Store content by name
//	s.Store("filename1", "a very long string1")
//	s.Store("filename2", "a very long string1") // same blob
//
//	// Retrieve content
//	content, err := s.Get("filename1")
//	if errors.Is(err, namestore.ErrNotFound) { ... }
//
//	// Inspect
//	digest, ok := s.Lookup("filename1")
//	for _, e := range s.List("file") { fmt.Println(e.Name, e.Digest) }
//	stats, _ := s.Stats() // names, blobs, bytes
//
// Names are any non-empty valid UTF-8 strings; the JSON index cannot keep
// other byte sequences intact, so they are rejected with ErrInvalidName.
//
// Every Store call rewrites the index before returning, so there is nothing
// to close. A Store is the only writer of its directory; sharing a
// directory between processes loses updates.
package namestore
