// Package config loads, normalizes, and validates playlister configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files from an explicit path or a fixed search list,
// and honours the PLAYLISTER_CATALOG environment fallback. Windows-style
// backslashes in library.location_remove are converted so the prefix matches
// the forward-slash Location URLs found in catalogs.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical formats, and clear validation errors.
package config
