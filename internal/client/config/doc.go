// Package config handles configuration for the vault CLI, layering defaults,
// an optional JSON file, and command-line flags.
package config
