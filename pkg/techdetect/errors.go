package techdetect

import "errors"

var (
	// ErrNoFreePort is returned when no loopback port can be reserved for
	// the browser's debugging endpoint.
	ErrNoFreePort = errors.New("techdetect: no free port")

	// ErrBrowserUnavailable is returned when Chrome cannot be launched.
	ErrBrowserUnavailable = errors.New("techdetect: browser unavailable")

	// ErrNavigation is returned when the page could not be loaded.
	ErrNavigation = errors.New("techdetect: navigation failed")

	// ErrInvalidFingerprint is returned for a fingerprint with a bad pattern.
	ErrInvalidFingerprint = errors.New("techdetect: invalid fingerprint")
)
