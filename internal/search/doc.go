// Package search maintains a bleve full-text index over catalogued videos.
//
// Titles, descriptions and validated tag names are analyzed with the English
// analyzer; validated tags are also indexed verbatim for exact filtering. The
// index is derived data: `posawiki search rebuild` recreates it from the
// catalog at any time, and a mapping version file forces a rebuild when the
// mapping changes.
package search
