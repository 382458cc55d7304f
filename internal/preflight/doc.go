// Package preflight provides readiness checks for the filesystem paths,
// vocabulary file and catalog database posawiki depends on.
//
// The CLI "posawiki status" command runs RunAll and renders one line per
// check. The catalog check opens (and so initializes) the database; the
// write-lock check releases the lock immediately.
package preflight
