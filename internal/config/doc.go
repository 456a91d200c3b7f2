// Package config loads, normalizes, and validates voicegen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TYPECAST_API_KEY. The Config type centralizes every knob the CLI needs so
// provider credentials, output locations, and ledger storage are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
