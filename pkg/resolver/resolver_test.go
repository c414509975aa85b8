package resolver

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup answers from a static table and records every query.
type fakeLookup struct {
	mu      sync.Mutex
	answers map[string][]net.IP
	queries []string
}

func (f *fakeLookup) LookupIP(_ context.Context, host string) ([]net.IP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, host)
	ips, ok := f.answers[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return ips, nil
}

func newFake() *fakeLookup {
	return &fakeLookup{answers: map[string][]net.IP{
		"example.com": {net.ParseIP("93.184.216.34")},
		"v6only.test": {net.ParseIP("2001:db8::1")},
		"dual.test":   {net.ParseIP("2001:db8::2"), net.ParseIP("10.0.0.2")},
	}}
}

func urls(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.URL()
	}
	return out
}

func TestResolve_DefaultPortsOneSchemeEach(t *testing.T) {
	r := New(newFake())
	got := r.Resolve(context.Background(), "example.com", "80,443")

	assert.Equal(t, []string{
		"http://example.com:80",
		"https://example.com:443",
	}, urls(got))
}

func TestResolve_OtherPortTriesHTTPSThenHTTP(t *testing.T) {
	r := New(newFake())
	got := r.Resolve(context.Background(), "example.com", "8443")

	assert.Equal(t, []string{
		"https://example.com:8443",
		"http://example.com:8443",
	}, urls(got))
}

func TestResolve_PortOrderPreserved(t *testing.T) {
	r := New(newFake())
	got := r.Resolve(context.Background(), "example.com", "443,8080,80")

	assert.Equal(t, []string{
		"https://example.com:443",
		"https://example.com:8080",
		"http://example.com:8080",
		"http://example.com:80",
	}, urls(got))
}

func TestResolve_TokensComparedLiterally(t *testing.T) {
	f := newFake()
	r := New(f)

	// " 443" is neither "443" nor a valid port number
	got := r.Resolve(context.Background(), "example.com", "80, 443")
	assert.Equal(t, []string{"http://example.com:80"}, urls(got))
}

func TestResolve_IPv6OnlyYieldsNothing(t *testing.T) {
	r := New(newFake())
	assert.Empty(t, r.Resolve(context.Background(), "v6only.test", "80,443,8443"))
}

func TestResolve_AnyIPv4IsEnough(t *testing.T) {
	r := New(newFake())
	got := r.Resolve(context.Background(), "dual.test", "443")
	assert.Equal(t, []string{"https://dual.test:443"}, urls(got))
}

func TestResolve_LookupFailureYieldsNothing(t *testing.T) {
	r := New(newFake())
	assert.Empty(t, r.Resolve(context.Background(), "missing.invalid", "80,443"))
}

func TestResolve_EmptyHostAndEmptyPort(t *testing.T) {
	f := newFake()
	r := New(f)

	assert.Empty(t, r.Resolve(context.Background(), "", "80,443"))
	assert.Empty(t, r.Resolve(context.Background(), "example.com", ""))
	assert.Empty(t, f.queries, "invalid attempts must not reach DNS")
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(newFake())
	assert.Empty(t, r.Resolve(ctx, "example.com", "80,443"))
}

func TestResolve_WithCacheQueriesOnce(t *testing.T) {
	f := newFake()
	c := NewCache(f, 0, 0)
	defer c.Close()

	r := New(c)
	got := r.Resolve(context.Background(), "example.com", "80,443,8080,8443")

	assert.Len(t, got, 6)
	assert.Equal(t, []string{"example.com"}, f.queries)
}

func TestCache_NegativeEntry(t *testing.T) {
	f := newFake()
	c := NewCache(f, 0, 0)
	defer c.Close()

	_, err1 := c.LookupIP(context.Background(), "missing.invalid")
	_, err2 := c.LookupIP(context.Background(), "missing.invalid")

	require.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Len(t, f.queries, 1)
}

func TestCache_CancelledLookupNotCached(t *testing.T) {
	calls := 0
	c := NewCache(LookupFunc(func(ctx context.Context, host string) ([]net.IP, error) {
		calls++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []net.IP{net.ParseIP("127.0.0.1")}, nil
	}), 0, 0)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.LookupIP(ctx, "localhost")
	assert.True(t, errors.Is(err, context.Canceled))

	ips, err := c.LookupIP(context.Background(), "localhost")
	require.NoError(t, err)
	assert.Len(t, ips, 1)
	assert.Equal(t, 2, calls)
}

func TestCache_CloseIdempotent(t *testing.T) {
	c := NewCache(newFake(), 0, 0)
	c.Close()
	assert.NotPanics(t, c.Close)
}

func TestSchemesFor(t *testing.T) {
	assert.Equal(t, []string{"http"}, SchemesFor("80"))
	assert.Equal(t, []string{"https"}, SchemesFor("443"))
	assert.Equal(t, []string{"https", "http"}, SchemesFor("8080"))
}
