// Package regexcache provides a thread-safe cache for compiled regular expressions.
// Caller-supplied patterns are applied to every candidate of every job, so
// each distinct pattern is compiled once per process. Compile failures are
// cached too, so a malformed pattern costs one compile attempt.
//
// Usage:
//
//	re, err := regexcache.Get(opts.BodyRegex)
//	if err != nil {
//	    // drop the candidate
//	}
package regexcache

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// ErrInvalidPattern wraps every compile failure returned by Get.
var ErrInvalidPattern = errors.New("regexcache: invalid pattern")

type entry struct {
	re  *regexp.Regexp
	err error
}

// cache holds compile results keyed by pattern string.
var cache sync.Map // map[string]entry

// Get returns a compiled regexp for the given pattern.
// If the pattern is invalid, it returns an error wrapping ErrInvalidPattern.
func Get(pattern string) (*regexp.Regexp, error) {
	if v, ok := cache.Load(pattern); ok {
		e := v.(entry)
		return e.re, e.err
	}

	re, err := regexp.Compile(pattern)
	e := entry{re: re}
	if err != nil {
		e = entry{err: fmt.Errorf("%w: %v", ErrInvalidPattern, err)}
	}

	v, _ := cache.LoadOrStore(pattern, e)
	e = v.(entry)
	return e.re, e.err
}

// MustGet returns a compiled regexp for the given pattern.
// It panics if the pattern is invalid.
func MustGet(pattern string) *regexp.Regexp {
	re, err := Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Validate compiles each non-empty pattern and returns the first failure.
func Validate(patterns ...string) error {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, err := Get(p); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all cached entries.
// This is primarily useful for testing.
func Clear() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}

// Size returns the number of cached patterns, valid or not.
func Size() int {
	count := 0
	cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
