// Package config loads, normalizes, and validates scribe's TOML
// configuration, filling credentials from the environment when the file
// leaves them blank.
package config
