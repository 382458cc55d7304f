// Package authority holds the canonical tag vocabulary and the alias index
// built from it.
//
// A Snapshot is an immutable, validated list of authorities loaded from a
// JSON or YAML file (or the embedded seed). BuildIndex derives the folded
// alias index from a snapshot; the same alias may point at several canonical
// names, so index entries are always ordered sets. Resolver splits a video's
// raw tags into validated canonical names and unvalidated leftovers without
// ever failing on unknown input.
package authority
