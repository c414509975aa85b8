// Package ratelimit provides admission control for the job producer.
// A single token bucket with no burst bounds how fast jobs enter the queue;
// consumption speed is governed separately by the worker pool size.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hrekt/hrekt/pkg/defaults"
	"golang.org/x/time/rate"
)

// Config holds rate limiting configuration
type Config struct {
	// RequestsPerSecond is the admission rate R (<= 0 falls back to defaults.RateLimit)
	RequestsPerSecond int

	// Burst is the bucket depth (<= 0 means 1, i.e. no burst beyond the rate)
	Burst int
}

// DefaultConfig returns the documented default of 1000 admissions per second
func DefaultConfig() *Config {
	return &Config{
		RequestsPerSecond: defaults.RateLimit,
		Burst:             1,
	}
}

// Limiter admits callers at a bounded rate
type Limiter struct {
	config   *Config
	bucket   *rate.Limiter
	admitted atomic.Int64

	// lastAdmitNano is the unix nano timestamp of the latest admission
	lastAdmitNano atomic.Int64
}

// New creates a limiter with the given configuration
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = defaults.RateLimit
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}

	return &Limiter{
		config: &c,
		bucket: rate.NewLimiter(rate.Limit(c.RequestsPerSecond), c.Burst),
	}
}

// NewPerSecond creates a limiter admitting rps callers per second with no burst
func NewPerSecond(rps int) *Limiter {
	return New(&Config{RequestsPerSecond: rps, Burst: 1})
}

// Admit blocks until a token is available and consumes it.
// It returns the context error if ctx is done first.
func (l *Limiter) Admit(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}
	l.admitted.Add(1)
	l.lastAdmitNano.Store(time.Now().UnixNano())
	return nil
}

// Stats holds current limiter statistics
type Stats struct {
	RequestsPerSecond int
	Admitted          int64
	LastAdmit         time.Time
	TokensAvailable   float64
}

// Stats returns current limiter statistics
func (l *Limiter) Stats() Stats {
	s := Stats{
		RequestsPerSecond: l.config.RequestsPerSecond,
		Admitted:          l.admitted.Load(),
		TokensAvailable:   l.bucket.Tokens(),
	}
	if n := l.lastAdmitNano.Load(); n > 0 {
		s.LastAdmit = time.Unix(0, n)
	}
	return s
}

// Rate returns the configured admissions per second
func (l *Limiter) Rate() int {
	return l.config.RequestsPerSecond
}
