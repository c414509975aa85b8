package bufpool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_ReturnsEmptyBuffer(t *testing.T) {
	buf := Get()
	buf.WriteString("leftover")
	Put(buf)

	again := Get()
	assert.Zero(t, again.Len())
	Put(again)
}

func TestPut_DropsNilAndOversized(t *testing.T) {
	assert.NotPanics(t, func() { Put(nil) })

	big := bytes.NewBuffer(make([]byte, 0, maxPooledSize+1))
	Put(big)
	assert.Greater(t, big.Cap(), maxPooledSize, "oversized buffer is left untouched")
}
