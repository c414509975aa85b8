package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AdmitsAtConfiguredRate(t *testing.T) {
	const (
		rps = 20
		n   = 6
	)
	l := NewPerSecond(rps)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Admit(ctx))
	}
	elapsed := time.Since(start)

	// (n-1)/R seconds with a small allowance for timer jitter
	minimum := time.Duration(n-1) * time.Second / rps
	assert.GreaterOrEqual(t, elapsed, minimum-10*time.Millisecond,
		"admitted %d jobs at %d/s in %v", n, rps, elapsed)
}

func TestLimiter_NoBurst(t *testing.T) {
	l := NewPerSecond(10)
	ctx := context.Background()

	require.NoError(t, l.Admit(ctx))
	start := time.Now()
	require.NoError(t, l.Admit(ctx))

	// second admission must wait for a fresh token (~100ms)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestLimiter_ConcurrentCallersShareBucket(t *testing.T) {
	l := NewPerSecond(50)
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Admit(ctx)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
	assert.Equal(t, int64(5), l.Stats().Admitted)
}

func TestLimiter_ContextCancelled(t *testing.T) {
	l := NewPerSecond(1)
	require.NoError(t, l.Admit(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Admit(ctx)
	assert.Error(t, err)
	assert.Equal(t, int64(1), l.Stats().Admitted)
}

func TestNew_InvalidRateFallsBackToDefault(t *testing.T) {
	for _, rps := range []int{0, -5} {
		l := New(&Config{RequestsPerSecond: rps})
		assert.Equal(t, defaults.RateLimit, l.Rate())
	}
	assert.Equal(t, defaults.RateLimit, New(nil).Rate())
}

func TestStats_LastAdmit(t *testing.T) {
	l := NewPerSecond(100)
	assert.True(t, l.Stats().LastAdmit.IsZero())

	require.NoError(t, l.Admit(context.Background()))
	assert.False(t, l.Stats().LastAdmit.IsZero())
}
