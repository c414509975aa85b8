package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
)

// Sentinel errors for HTTP client failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrInvalidProxy indicates a malformed or unsupported proxy URL.
	ErrInvalidProxy = errors.New("httpclient: invalid proxy")

	// ErrProxyConnect indicates the SOCKS dialer could not be built.
	ErrProxyConnect = errors.New("httpclient: proxy connection failed")

	// ErrTooManyRedirects is returned once the redirect limit is reached.
	ErrTooManyRedirects = errors.New("httpclient: too many redirects")
)

// Reason maps a transport error to a short label for logs and metrics.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	var recErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var netErr net.Error

	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return "redirects"
	case errors.As(err, &dnsErr):
		return "dns"
	case errors.As(err, &recErr), errors.As(err, &certErr), errors.As(err, &unknownAuth):
		return "tls"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "connect"
	}
}
