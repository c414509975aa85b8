package httpclient

import "net/http"

// uaTransport stamps a fixed User-Agent on every request, redirects included.
type uaTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// Unwrap returns the underlying transport.
func (t *uaTransport) Unwrap() http.RoundTripper {
	return t.base
}
