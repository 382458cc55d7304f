// Package ingest loads channel scrape files into the catalog and keeps the
// stored validated/unvalidated tag split in step with the authority table.
package ingest
