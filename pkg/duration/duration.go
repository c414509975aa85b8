// Package duration provides canonical time constants for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all time-based configuration.
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, duration.BrowserPage)
//
// DO NOT use hardcoded time.Duration values like `30 * time.Second` anywhere.
// Instead, reference the appropriate constant from this package.
package duration

import "time"

// ============================================================================
// BROWSER/HEADLESS TIMEOUTS
// ============================================================================
//
// Use these for chromedp operations in the fingerprinting browser.
// ============================================================================

const (
	// BrowserPage is for page load timeout (30s)
	BrowserPage = 30 * time.Second

	// BrowserStart bounds how long a worker waits for Chrome to come up (20s)
	BrowserStart = 20 * time.Second

	// BrowserShutdown bounds graceful browser teardown before force-kill (5s)
	BrowserShutdown = 5 * time.Second

	// BrowserSettle is the wait after load for late scripts to register (500ms)
	BrowserSettle = 500 * time.Millisecond
)

// ============================================================================
// NETWORK/TRANSPORT
// ============================================================================
//
// Use these for low-level network configuration.
// ============================================================================

const (
	// DialTimeout is for establishing TCP connections (10s)
	DialTimeout = 10 * time.Second

	// KeepAlive is for TCP keep-alive interval (30s)
	KeepAlive = 30 * time.Second

	// IdleConnTimeout is for idle connection pool timeout (90s)
	IdleConnTimeout = 90 * time.Second

	// TLSHandshake is for TLS handshake timeout (10s)
	TLSHandshake = 10 * time.Second

	// DNSTimeout is for DNS resolution timeout (3s)
	DNSTimeout = 3 * time.Second
)

// ============================================================================
// CACHE TTLs
// ============================================================================

const (
	// DNSPositive is how long successful lookups stay cached (5min)
	DNSPositive = 5 * time.Minute

	// DNSNegative is how long failed lookups stay cached (30s)
	DNSNegative = 30 * time.Second
)

// ============================================================================
// PROCESS LIFECYCLE
// ============================================================================

const (
	// ShutdownGrace is the window for a second interrupt to force exit (10s)
	ShutdownGrace = 10 * time.Second

	// MetricsShutdown bounds the metrics listener shutdown (5s)
	MetricsShutdown = 5 * time.Second

	// MetricsReadTimeout is the metrics listener read timeout (5s)
	MetricsReadTimeout = 5 * time.Second
)
