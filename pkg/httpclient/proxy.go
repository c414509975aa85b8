package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

var supportedProxySchemes = map[string]bool{
	"http":    true,
	"https":   true,
	"socks5":  true,
	"socks5h": true, // DNS resolved on the proxy side
}

// ProxyConfig is a parsed proxy URL.
type ProxyConfig struct {
	URL      *url.URL
	Scheme   string
	Host     string
	Port     string
	Username string
	Password string
}

// IsSOCKS reports whether the proxy speaks SOCKS5.
func (p *ProxyConfig) IsSOCKS() bool {
	return p != nil && (p.Scheme == "socks5" || p.Scheme == "socks5h")
}

// Address returns host:port.
func (p *ProxyConfig) Address() string {
	if p == nil {
		return ""
	}
	return net.JoinHostPort(p.Host, p.Port)
}

// ParseProxyURL validates a proxy URL. An empty string returns nil, nil.
// A missing scheme defaults to http.
func ParseProxyURL(raw string) (*ProxyConfig, error) {
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProxy, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !supportedProxySchemes[scheme] {
		return nil, fmt.Errorf("%w: unsupported scheme %q (use http, https, socks5, socks5h)", ErrInvalidProxy, scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidProxy)
	}
	port := parsed.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "8080"
		case "https":
			port = "8443"
		default:
			port = "1080"
		}
	}

	cfg := &ProxyConfig{
		URL:    parsed,
		Scheme: scheme,
		Host:   host,
		Port:   port,
	}
	if parsed.User != nil {
		cfg.Username = parsed.User.Username()
		cfg.Password, _ = parsed.User.Password()
	}
	return cfg, nil
}

// applyProxy installs the proxy on transport. HTTP proxies go through
// Transport.Proxy; SOCKS proxies replace the dialer.
func applyProxy(transport *http.Transport, raw string) error {
	pc, err := ParseProxyURL(raw)
	if err != nil || pc == nil {
		return err
	}

	if !pc.IsSOCKS() {
		transport.Proxy = http.ProxyURL(pc.URL)
		return nil
	}

	dial, err := socksDialer(pc)
	if err != nil {
		return err
	}
	transport.DialContext = dial
	return nil
}

func socksDialer(pc *ProxyConfig) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	// x/net/proxy only knows "socks5"; it passes host names through
	// unresolved, which is what socks5h asks for anyway.
	u := &url.URL{Scheme: "socks5", Host: pc.Address()}
	if pc.Username != "" {
		u.User = url.UserPassword(pc.Username, pc.Password)
	}

	d, err := proxy.FromURL(u, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxyConnect, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return func(_ context.Context, network, addr string) (net.Conn, error) {
			return d.Dial(network, addr)
		}, nil
	}
	return cd.DialContext, nil
}
