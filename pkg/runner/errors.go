package runner

import "errors"

// Sentinel errors for runner failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrReadInput indicates the host list could not be read to the end.
	ErrReadInput = errors.New("runner: read input")

	// ErrWorkerStart indicates a worker slot could not build its
	// private resources.
	ErrWorkerStart = errors.New("runner: worker start")
)
