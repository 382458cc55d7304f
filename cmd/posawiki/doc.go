// Package main hosts the posawiki CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into batch passes
// over the catalog: importing scraped videos, re-validating tags against the
// authority vocabulary, detecting and importing trips, reconciling new
// episodes and querying the search index. It centralizes configuration
// resolution, the single-writer lock and structured logging setup so
// subcommands only describe what they report.
//
// Add behaviour to the internal packages first and surface it here through a
// dedicated command or flag.
package main
