// Package resolver expands a host and its port list into the scheme-qualified
// candidates worth probing.
//
// Port tokens are compared literally: "80" is attempted as http only, "443"
// as https only, and any other token as https followed by http. An attempt
// produces a candidate only when the host resolves to at least one IPv4
// address. Failures are never returned; they simply produce nothing.
package resolver

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/hrekt/hrekt/pkg/defaults"
)

// Candidate is one resolvable scheme://host:port target.
type Candidate struct {
	Scheme string
	Host   string
	Port   string
}

// URL renders the candidate as scheme://host:port.
func (c Candidate) URL() string {
	return c.Scheme + "://" + c.Host + ":" + c.Port
}

// String implements fmt.Stringer.
func (c Candidate) String() string {
	return c.URL()
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output on failed attempts.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// Resolver turns (host, ports) into candidates.
type Resolver struct {
	lookup Lookuper
	logger *slog.Logger
}

// New creates a resolver backed by lookup. A nil lookup uses the system
// resolver without caching.
func New(lookup Lookuper, opts ...Option) *Resolver {
	if lookup == nil {
		lookup = SystemLookuper{}
	}
	r := &Resolver{
		lookup: lookup,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SchemesFor returns the schemes attempted for a port token, in order.
func SchemesFor(port string) []string {
	switch port {
	case defaults.PortHTTP:
		return []string{defaults.SchemeHTTP}
	case defaults.PortHTTPS:
		return []string{defaults.SchemeHTTPS}
	default:
		return []string{defaults.SchemeHTTPS, defaults.SchemeHTTP}
	}
}

// Resolve returns every candidate for host over the comma-separated ports,
// in port order. Tokens are not trimmed.
func (r *Resolver) Resolve(ctx context.Context, host, ports string) []Candidate {
	var out []Candidate
	for _, port := range strings.Split(ports, ",") {
		for _, scheme := range SchemesFor(port) {
			if ctx.Err() != nil {
				return out
			}
			c := Candidate{Scheme: scheme, Host: host, Port: port}
			if err := r.attempt(ctx, c); err != nil {
				r.logger.Debug("resolve attempt failed",
					slog.String("candidate", c.URL()),
					slog.String("error", err.Error()))
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// attempt reports whether c is resolvable. Each attempt performs its own
// lookup; a caching Lookuper collapses repeats for the same host.
func (r *Resolver) attempt(ctx context.Context, c Candidate) error {
	if c.Host == "" {
		return ErrEmptyHost
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return ErrInvalidPort
	}
	ips, err := r.lookup.LookupIP(ctx, c.Host)
	if err != nil {
		return err
	}
	if !HasIPv4(ips) {
		return ErrNoIPv4
	}
	return nil
}

// HasIPv4 reports whether any address in ips is IPv4.
func HasIPv4(ips []net.IP) bool {
	for _, ip := range ips {
		if ip.To4() != nil {
			return true
		}
	}
	return false
}
