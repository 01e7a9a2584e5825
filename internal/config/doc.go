// Package config loads, normalizes, and validates filmdesk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// FILMDESK_API_URL, optionally seeded from a .env file. The Config type
// centralizes every knob the CLI and the form controller need, so the catalog
// endpoint, session storage, and upload limits are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
