package config

import "errors"

// Sentinel errors for configuration failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidConfig indicates the configuration is syntactically
	// or semantically invalid (bad YAML, malformed proxy, etc.).
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrHelp is returned when -h or -help was requested.
	ErrHelp = errors.New("config: help requested")
)
