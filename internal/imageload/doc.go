// Package imageload turns raw file payloads into sorted LoadedImages.
//
// Each payload runs through a small step pipeline: content sniffing,
// dimension decoding, EXIF metadata extraction and digesting. A batch is
// decoded concurrently with errgroup and joined all-or-nothing: when any
// image fails, the whole batch fails and no partial result is returned.
//
// Payloads that are not images are dropped before decoding. They are not
// an error.
//
// The working set is ordered by the integer prefix of each filename once
// a known image extension is stripped, so "2.png" sorts before "10.png".
package imageload
