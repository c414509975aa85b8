package workerpool

import "errors"

// ErrNoWorkers is returned by Run when every worker slot failed to start.
var ErrNoWorkers = errors.New("workerpool: no worker slot could be started")
