// Package config loads, normalizes, and validates posawiki configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the POSAWIKI_AUTHORITY_FILE
// environment fallback. Detector thresholds, statistics buckets and the
// catalog location all live here so every pass reads them from one place.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
