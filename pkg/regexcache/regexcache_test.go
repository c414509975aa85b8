package regexcache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPattern(t *testing.T) {
	Clear()
	re, err := Get(`\d+`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("123"))
}

func TestGet_InvalidPatternCached(t *testing.T) {
	Clear()
	_, err1 := Get(`[invalid`)
	_, err2 := Get(`[invalid`)

	assert.ErrorIs(t, err1, ErrInvalidPattern)
	assert.Same(t, err1, err2)
	assert.Equal(t, 1, Size())
}

func TestGet_Caching(t *testing.T) {
	Clear()
	re1, _ := Get(`test\d+`)
	re2, _ := Get(`test\d+`)

	assert.Same(t, re1, re2)
	assert.Equal(t, 1, Size())
}

func TestMustGet(t *testing.T) {
	Clear()
	assert.NotNil(t, MustGet(`\w+`))
	assert.Panics(t, func() { MustGet(`(`) })
}

func TestValidate(t *testing.T) {
	Clear()
	assert.NoError(t, Validate("", `<title>(.*)</title>`))
	assert.ErrorIs(t, Validate(`ok`, `*bad`), ErrInvalidPattern)
}

func TestGet_Concurrent(t *testing.T) {
	Clear()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			re, err := Get(`X-Powered-By:PHP`)
			assert.NoError(t, err)
			assert.NotNil(t, re)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, Size())
}
