// Package logs reads back the posawiki log file for the CLI.
//
// It keeps the last N matching lines with bounded memory and can narrow the
// output to one run id, event type or level, so a single import or reconcile
// pass can be reviewed after the fact. Both the console and JSON log formats
// are understood.
package logs
