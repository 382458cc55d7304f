// Package logging assembles structured slog loggers and formatting helpers used
// across posawiki passes.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and stamps every line with the run id of the CLI invocation so a
// single import or reconcile pass can be traced through the log file. Context
// helpers tag lines with the active pass name. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
