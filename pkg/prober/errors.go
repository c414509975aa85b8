package prober

import "errors"

var (
	// ErrPathNotFound means the path probe answered 404 or 400.
	ErrPathNotFound = errors.New("prober: path not found")

	// ErrRequest means the request could not be built from the target URL.
	ErrRequest = errors.New("prober: invalid request")
)
