// Package config loads, normalizes, and validates the TOML configuration
// that drives the daemon and CLI.
package config
