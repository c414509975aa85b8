package resolver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hrekt/hrekt/pkg/duration"
)

// Lookuper resolves a host name to its IP addresses.
type Lookuper interface {
	LookupIP(ctx context.Context, host string) ([]net.IP, error)
}

// LookupFunc adapts a plain function to the Lookuper interface.
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// LookupIP calls f(ctx, host).
func (f LookupFunc) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	return f(ctx, host)
}

// SystemLookuper queries the Go resolver with a bounded per-lookup timeout.
type SystemLookuper struct {
	Resolver *net.Resolver
	Timeout  time.Duration
}

// LookupIP implements Lookuper.
func (s SystemLookuper) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	r := s.Resolver
	if r == nil {
		r = &net.Resolver{PreferGo: true}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = duration.DNSTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.LookupIP(ctx, "ip", host)
}

// Cache memoizes lookups so a host probed on many ports costs one query.
// Failed lookups are cached for a shorter negative TTL.
type Cache struct {
	upstream    Lookuper
	entries     sync.Map // map[string]*cacheEntry
	ttl         time.Duration
	negativeTTL time.Duration
	now         func() time.Time

	stopEviction chan struct{}
	closeOnce    sync.Once
}

type cacheEntry struct {
	mu        sync.RWMutex
	ips       []net.IP
	err       error
	expiresAt time.Time
}

// NewCache wraps upstream with a TTL cache and starts background eviction
// every 2*ttl. Call Close to stop it.
func NewCache(upstream Lookuper, ttl, negativeTTL time.Duration) *Cache {
	if upstream == nil {
		upstream = SystemLookuper{}
	}
	if ttl <= 0 {
		ttl = duration.DNSPositive
	}
	if negativeTTL <= 0 {
		negativeTTL = duration.DNSNegative
	}
	c := &Cache{
		upstream:     upstream,
		ttl:          ttl,
		negativeTTL:  negativeTTL,
		now:          time.Now,
		stopEviction: make(chan struct{}),
	}
	go c.evictionLoop(2 * ttl)
	return c
}

// NewSystemCache returns a cache over the Go resolver with default TTLs.
func NewSystemCache() *Cache {
	return NewCache(SystemLookuper{}, duration.DNSPositive, duration.DNSNegative)
}

// Close stops the eviction goroutine. It is safe to call more than once.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.stopEviction) })
}

func (c *Cache) evictionLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopEviction:
			return
		case <-ticker.C:
			now := c.now()
			c.entries.Range(func(key, value any) bool {
				e, ok := value.(*cacheEntry)
				if !ok {
					c.entries.Delete(key)
					return true
				}
				e.mu.RLock()
				expired := now.After(e.expiresAt)
				e.mu.RUnlock()
				if expired {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

// LookupIP returns the cached addresses for host, refreshing expired entries.
func (c *Cache) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	if v, ok := c.entries.Load(host); ok {
		e, ok := v.(*cacheEntry)
		if !ok {
			return nil, fmt.Errorf("resolver: corrupt cache entry %T for host %s", v, host)
		}
		e.mu.RLock()
		if c.now().Before(e.expiresAt) {
			ips, err := e.ips, e.err
			e.mu.RUnlock()
			return ips, err
		}
		e.mu.RUnlock()
	}
	return c.refresh(ctx, host)
}

func (c *Cache) refresh(ctx context.Context, host string) ([]net.IP, error) {
	v, _ := c.entries.LoadOrStore(host, &cacheEntry{})
	e, ok := v.(*cacheEntry)
	if !ok {
		return nil, fmt.Errorf("resolver: corrupt cache entry %T for host %s", v, host)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// another goroutine may have refreshed while we waited for the lock
	if c.now().Before(e.expiresAt) {
		return e.ips, e.err
	}

	ips, err := c.upstream.LookupIP(ctx, host)
	if err != nil {
		// a cancelled lookup says nothing about the host
		if ctx.Err() != nil {
			return nil, err
		}
		e.ips, e.err = nil, err
		e.expiresAt = c.now().Add(c.negativeTTL)
		return nil, err
	}

	e.ips, e.err = ips, nil
	e.expiresAt = c.now().Add(c.ttl)
	return ips, nil
}

// Len returns the number of cached hosts, expired or not.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
