// Package config loads, normalizes, and validates second-brain configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes every knob the CLI and
// pipeline need: output and log directories, YouTube client settings, the
// LLM connection, and transcription behaviour.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
