package resolver

import "errors"

// Sentinel errors for resolution attempts. They never escape Resolve; they
// are logged at debug level and the attempt yields no candidate.
var (
	// ErrEmptyHost is returned when the job carries no host name
	ErrEmptyHost = errors.New("resolver: empty host")

	// ErrInvalidPort is returned when a port token is not a decimal port number
	ErrInvalidPort = errors.New("resolver: invalid port")

	// ErrNoIPv4 is returned when a lookup succeeds without any IPv4 address
	ErrNoIPv4 = errors.New("resolver: no IPv4 address")
)
