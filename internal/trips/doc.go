// Package trips turns reviewed candidate groups into persisted trips and
// keeps them complete as new videos appear.
//
// Import persists each confirmed group as one trip plus one video_versions
// row per member. Reconcile finds later uploads of an existing series by
// title, links them, rewrites total_parts on every sibling and reports gaps
// in the part sequence. Check and Reclassify are read-mostly maintenance
// passes over the same tables. Integrity problems are reported, never fixed
// automatically.
package trips
