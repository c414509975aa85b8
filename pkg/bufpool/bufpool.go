// Package bufpool provides a sync.Pool of bytes.Buffer for response body
// reads. Every worker reads one body per candidate, so buffers are reused
// across candidates instead of reallocated.
package bufpool

import (
	"bytes"
	"sync"

	"github.com/hrekt/hrekt/pkg/defaults"
)

// maxPooledSize is the largest buffer returned to the pool. Buffers grown
// past it by an unusually large body are left to the GC.
const maxPooledSize = defaults.BufferLarge * 4

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Get retrieves an empty buffer from the pool.
// Callers should call Put() when done.
func Get() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns buf to the pool. Nil and oversized buffers are dropped.
func Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
