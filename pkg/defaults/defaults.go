// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all runtime configuration defaults.
//
// Usage:
//
//	cfg.Concurrency = defaults.Concurrency
//	limiter := ratelimit.New(defaults.RateLimit)
//
// DO NOT use hardcoded values like `Concurrency: 100` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// Version is the current hrekt version
const Version = "0.2.0"

// ============================================================================
// RUN SETTINGS
// ============================================================================
//
// Fallbacks used when a run option is missing or cannot be parsed.
// ============================================================================

const (
	// RateLimit is the number of jobs admitted per second (1000)
	RateLimit = 1000

	// Concurrency is the number of probing workers (100)
	Concurrency = 100

	// TimeoutSeconds is the per-request HTTP timeout in seconds (3)
	TimeoutSeconds = 3

	// Workers is the OS thread pool size handed to GOMAXPROCS (1)
	Workers = 1

	// Ports is the comma-separated port list probed per host
	Ports = "80,443"
)

// ============================================================================
// HTTP SETTINGS
// ============================================================================

const (
	// MaxRedirects caps the redirect chain when redirects are followed (10)
	MaxRedirects = 10

	// MaxIdleConnsPerWorker bounds each worker's idle connection pool (4)
	MaxIdleConnsPerWorker = 4

	// UserAgent is sent on every probe request
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:95.0) Gecko/20100101 Firefox/95.0"

	// UABrowser is the user agent of the fingerprinting browser
	UABrowser = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ============================================================================
// BUFFER SIZES
// ============================================================================

const (
	// BufferLarge is for draining bodies before connection reuse (64KB)
	BufferLarge = 64 * 1024

	// BufferMax is the maximum response body size read per candidate (10MB)
	BufferMax = 10 * 1024 * 1024
)

// ============================================================================
// SCHEMES
// ============================================================================

const (
	// SchemeHTTP is the plain-text scheme
	SchemeHTTP = "http"

	// SchemeHTTPS is the TLS scheme
	SchemeHTTPS = "https"

	// PortHTTP is the literal port token mapped to http only
	PortHTTP = "80"

	// PortHTTPS is the literal port token mapped to https only
	PortHTTPS = "443"
)

// ============================================================================
// METRICS
// ============================================================================

const (
	// MetricsNamespace prefixes every exported Prometheus metric
	MetricsNamespace = "hrekt"

	// MetricsPath is the HTTP path of the metrics endpoint
	MetricsPath = "/metrics"
)
