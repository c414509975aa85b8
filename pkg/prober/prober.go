// Package prober fetches candidates and turns their responses into matches.
//
// Each worker owns one Prober, and with it one HTTP client and at most one
// fingerprinting browser. For every candidate the prober issues a single
// GET: to candidate+path when a path is configured, otherwise to the
// candidate itself. A path answered with 404 or 400 drops the candidate;
// any other response is analyzed as-is.
package prober

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hrekt/hrekt/pkg/analyzer"
	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/httpclient"
	"github.com/hrekt/hrekt/pkg/iohelper"
	"github.com/hrekt/hrekt/pkg/job"
	"github.com/hrekt/hrekt/pkg/metrics"
	"github.com/hrekt/hrekt/pkg/resolver"
)

// Prober probes the candidates of a job. It is owned by one worker and is
// not safe for concurrent use.
type Prober struct {
	client   *http.Client
	analyzer *analyzer.Analyzer
	resolver *resolver.Resolver
	maxBody  int64
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithResolver sets the resolver used by ProcessJob.
func WithResolver(r *resolver.Resolver) Option {
	return func(p *Prober) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithMaxBody bounds how many body bytes are read per candidate.
func WithMaxBody(n int64) Option {
	return func(p *Prober) {
		if n > 0 {
			p.maxBody = n
		}
	}
}

// WithMetrics records probe results.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prober) {
		p.metrics = m
	}
}

// WithLogger sets the logger for per-candidate diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a prober around a worker's client and analyzer.
func New(client *http.Client, a *analyzer.Analyzer, opts ...Option) *Prober {
	p := &Prober{
		client:   client,
		analyzer: a,
		maxBody:  defaults.BufferMax,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = resolver.New(nil, resolver.WithLogger(p.logger))
	}
	return p
}

// Probe fetches one candidate and analyzes the response. A nil result with
// a nil error never happens: every dropped candidate carries a reason.
func (p *Prober) Probe(ctx context.Context, j job.Job, c resolver.Candidate) (*analyzer.MatchResult, error) {
	target := c.URL() + j.Options.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer iohelper.DrainAndClose(resp.Body)

	if j.Options.HasPath() && PathMissing(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s answered %d", ErrPathNotFound, target, resp.StatusCode)
	}

	body, err := iohelper.ReadText(resp.Body, resp.Header.Get("Content-Type"), p.maxBody)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", target, err)
	}

	return p.analyzer.Analyze(ctx, j.Host, j.Options, analyzer.Outcome{
		URL:           target,
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		Body:          body,
		ContentLength: resp.ContentLength,
	})
}

// ProcessJob resolves every candidate of j, then probes them one after the
// other. Failed candidates are logged at debug level and skipped.
func (p *Prober) ProcessJob(ctx context.Context, j job.Job) []analyzer.MatchResult {
	candidates := p.resolver.Resolve(ctx, j.Host, j.Options.Ports)
	p.metrics.CandidatesResolved(len(candidates))

	var results []analyzer.MatchResult
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		res, err := p.Probe(ctx, j, c)
		p.metrics.Probe(ResultLabel(err))
		if err != nil {
			reason := ResultLabel(err)
			var urlErr *url.Error
			if errors.As(err, &urlErr) {
				reason = httpclient.Reason(err)
			}
			p.logger.Debug("candidate dropped",
				slog.String("candidate", c.URL()),
				slog.String("reason", reason),
				slog.String("error", err.Error()))
			continue
		}
		results = append(results, *res)
	}
	return results
}

// PathMissing reports whether a path probe status drops the candidate.
func PathMissing(status int) bool {
	return status == http.StatusNotFound || status == http.StatusBadRequest
}

// ResultLabel classifies a Probe error for metrics and logs.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrPathNotFound):
		return metrics.ResultPathMiss
	case errors.Is(err, analyzer.ErrNoMatch):
		return metrics.ResultFiltered
	default:
		return metrics.ResultError
	}
}
