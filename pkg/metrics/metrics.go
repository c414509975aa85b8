// Package metrics exposes run counters for Prometheus scraping.
//
// All recording methods are safe on a nil *Metrics, so components can
// record unconditionally and metrics stay optional.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/duration"
)

// Probe result labels.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultPathMiss = "path_miss"
	ResultFiltered = "filtered"
)

// Metrics holds the run counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	jobsDispatched     prometheus.Counter
	candidatesResolved prometheus.Counter
	probes             *prometheus.CounterVec
	matches            *prometheus.CounterVec
}

// New creates and registers the counters.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: defaults.MetricsNamespace,
			Name:      "jobs_dispatched_total",
			Help:      "Jobs admitted by the rate limiter and enqueued",
		}),
		candidatesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: defaults.MetricsNamespace,
			Name:      "candidates_resolved_total",
			Help:      "Scheme/host/port candidates that resolved to an IPv4 address",
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: defaults.MetricsNamespace,
			Name:      "probes_total",
			Help:      "Candidate probes by result",
		}, []string{"result"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: defaults.MetricsNamespace,
			Name:      "matches_total",
			Help:      "Emitted matches by status class",
		}, []string{"class"}),
	}

	m.registry.MustRegister(m.jobsDispatched, m.candidatesResolved, m.probes, m.matches)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// JobDispatched counts one enqueued job.
func (m *Metrics) JobDispatched() {
	if m == nil {
		return
	}
	m.jobsDispatched.Inc()
}

// CandidatesResolved counts n resolved candidates.
func (m *Metrics) CandidatesResolved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidatesResolved.Add(float64(n))
}

// Probe counts one probe outcome.
func (m *Metrics) Probe(result string) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(result).Inc()
}

// Match counts one emitted match in the given status class.
func (m *Metrics) Match(class string) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(class).Inc()
}

// Server serves the registry over HTTP.
type Server struct {
	srv       *http.Server
	ln        net.Listener
	closeOnce sync.Once
	closeErr  error
}

// StartServer listens on addr and serves the metrics path until Close.
func (m *Metrics) StartServer(addr string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(defaults.MetricsPath, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	s := &Server{
		ln: ln,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: duration.MetricsReadTimeout,
			ReadTimeout:       duration.MetricsReadTimeout,
		},
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", slog.String("error", err.Error()))
		}
	}()

	logger.Debug("metrics server listening", slog.String("addr", s.Addr()))
	return s, nil
}

// Addr returns the bound address, useful when addr had port 0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), duration.MetricsShutdown)
		defer cancel()
		s.closeErr = s.srv.Shutdown(ctx)
	})
	return s.closeErr
}
