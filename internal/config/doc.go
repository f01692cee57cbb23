// Package config loads, normalizes, and validates gndfinder configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GNDFINDER_BASE_URL. The Config type centralizes every knob the lookup
// client, cache, and CLI need so the API endpoint, allowed professions, and
// retry policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
