// Package httpclient builds the HTTP client each probing worker owns.
// A client is constructed once at worker start and never shared, so the
// transport's connection pool is private to that worker.
//
// Every client:
//   - skips TLS certificate and hostname verification
//   - sends a fixed User-Agent on every request
//   - either follows at most MaxRedirects redirects or none at all
//   - applies one fixed timeout to the whole request
package httpclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/duration"
)

// Config holds HTTP client configuration options.
type Config struct {
	// Timeout is the total request timeout (default: 3s)
	Timeout time.Duration

	// FollowRedirects enables redirect following up to MaxRedirects
	FollowRedirects bool

	// MaxRedirects caps the redirect chain when following (default: 10)
	MaxRedirects int

	// UserAgent is set on every outgoing request
	UserAgent string

	// InsecureSkipVerify disables certificate and hostname checks (default: true)
	InsecureSkipVerify bool

	// Proxy is an optional http, https, socks5 or socks5h proxy URL
	Proxy string

	// MaxIdleConns bounds the worker's idle connection pool (default: 4)
	MaxIdleConns int
}

// DefaultConfig returns the probing defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:            defaults.TimeoutSeconds * time.Second,
		MaxRedirects:       defaults.MaxRedirects,
		UserAgent:          defaults.UserAgent,
		InsecureSkipVerify: true,
		MaxIdleConns:       defaults.MaxIdleConnsPerWorker,
	}
}

// New creates a client from cfg. Zero values fall back to DefaultConfig.
// It fails only when the proxy URL is malformed or unsupported.
func New(cfg Config) (*http.Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.TimeoutSeconds * time.Second
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = defaults.MaxRedirects
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaults.MaxIdleConnsPerWorker
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	dialer := &net.Dialer{
		Timeout:   duration.DialTimeout,
		KeepAlive: duration.KeepAlive,
	}

	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       duration.IdleConnTimeout,
		TLSHandshakeTimeout:   duration.TLSHandshake,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		// Report Content-Length as sent on the wire.
		DisableCompression:    true,
		DialContext:           dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // probing arbitrary hosts
		},
	}

	if err := applyProxy(transport, cfg.Proxy); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport:     &uaTransport{base: transport, userAgent: cfg.UserAgent},
		Timeout:       cfg.Timeout,
		CheckRedirect: RedirectPolicy(cfg.FollowRedirects, cfg.MaxRedirects),
	}, nil
}

// RedirectPolicy returns the CheckRedirect function for a client. When
// follow is false the first response is returned as-is.
func RedirectPolicy(follow bool, limit int) func(*http.Request, []*http.Request) error {
	if !follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= limit {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, limit)
		}
		return nil
	}
}
