// Package config loads, normalizes, and validates talkcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CFP_API_KEY. The Config type centralizes every knob the pipeline and CLI
// need, from spreadsheet column layout to ffmpeg argument templates.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
