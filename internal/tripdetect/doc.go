// Package tripdetect groups video titles into candidate trips and episodic
// series.
//
// Titles carrying an explicit part marker ("Part 2 of 5", "Episode 3",
// "- Day 2", "- Night 1", "[2 of 3]") are grouped by base title and marker
// kind and reported at high confidence. Unmarked titles are scored against a
// keyword list and stripped of decorations; those that look like trip
// footage are grouped by the stripped base title and kept only when all
// uploads fall inside the configured span window.
//
// Detection is read-only: the report is written to a file for a human to
// review before anything is persisted.
package tripdetect
