package analyzer

import "errors"

var (
	// ErrNoMatch means a configured body or header pattern did not match.
	// The candidate is dropped silently.
	ErrNoMatch = errors.New("analyzer: pattern did not match")

	// ErrTechScan means the fingerprinting collaborator failed for the URL.
	ErrTechScan = errors.New("analyzer: technology scan failed")
)
