// Package config loads and validates courier configuration.
//
// Configuration is resolved once at process start: repository defaults,
// then an optional TOML file, then environment variable overrides. The
// resulting Config is treated as immutable and passed explicitly to every
// component; nothing reads the environment after Load returns.
package config
