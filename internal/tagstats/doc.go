// Package tagstats computes the reports used to grow the tag vocabulary:
// case-folded tag frequencies, prefix variant groups, frequency buckets,
// unvalidated tag reviews, alias index coverage and upload/duration
// summaries. Every function is pure and returns deterministically ordered
// results (count descending, then tag ascending).
package tagstats
