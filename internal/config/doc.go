// Package config loads, normalizes, and validates subsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SUBSYNC_REMOTE_HOST
// environment fallback. The Config value is built once by the CLI and passed
// explicitly to every component that needs it.
package config
