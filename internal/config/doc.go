// Package config loads, normalizes, and validates reelpool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours REELPOOL_* environment overrides
// for the content-planning store credentials and log level. The Config type
// centralizes every knob the CLI and the core services need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
