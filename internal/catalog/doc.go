// Package catalog persists the video catalog and the trips assembled from it
// in SQLite.
//
// The Store owns the database connection, schema initialization, busy-retry
// plumbing, and the queries used by the import, re-validation, trip import,
// reconcile, and integrity passes. Videos keep their original tag list next
// to the validated/unvalidated split so re-validation can always start from
// the source data. Trips own an ordered set of video_versions rows; a part
// number is unique within a trip, while one-trip-per-video is only detected
// (DuplicateVideoLinks) and never enforced by the schema.
//
// Schema changes bump the version in schema.go; users rebuild the database
// from the scrape file to adopt the new schema.
package catalog
