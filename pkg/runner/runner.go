// Package runner is the dispatcher of a probing run. It reads host lines,
// admits one job per line through the rate limiter into a queue buffered to
// the worker count, and supervises the pool of workers draining it.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hrekt/hrekt/pkg/config"
	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/job"
	"github.com/hrekt/hrekt/pkg/metrics"
	"github.com/hrekt/hrekt/pkg/output"
	"github.com/hrekt/hrekt/pkg/ratelimit"
	"github.com/hrekt/hrekt/pkg/resolver"
	"github.com/hrekt/hrekt/pkg/techdetect"
	"github.com/hrekt/hrekt/pkg/workerpool"
)

// Runner dispatches jobs to a fixed pool of workers.
type Runner struct {
	cfg     *config.Config
	opts    job.Options
	limiter *ratelimit.Limiter

	resolver *resolver.Resolver
	lookup   resolver.Lookuper
	cache    *resolver.Cache
	detector *techdetect.Detector

	clients        ClientFactory
	fingerprinters FingerprinterFactory

	emitter output.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger

	dispatched atomic.Int64
	pool       workerpool.Stats
	started    time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithEmitter sets where matches are written.
func WithEmitter(e output.Emitter) Option {
	return func(r *Runner) { r.emitter = e }
}

// WithMetrics records dispatch, probe and match counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the logger shared by every worker.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLookuper replaces the cached system DNS lookup.
func WithLookuper(l resolver.Lookuper) Option {
	return func(r *Runner) { r.lookup = l }
}

// WithDetector sets the signature set used by every worker's browser.
func WithDetector(d *techdetect.Detector) Option {
	return func(r *Runner) { r.detector = d }
}

// WithClientFactory replaces per-worker HTTP client construction.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Runner) { r.clients = f }
}

// WithFingerprinterFactory replaces per-worker browser construction.
func WithFingerprinterFactory(f FingerprinterFactory) Option {
	return func(r *Runner) { r.fingerprinters = f }
}

// New creates a runner for cfg. Matches go to a console emitter on
// io.Discard unless WithEmitter is given.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		opts:    cfg.JobOptions(),
		limiter: ratelimit.NewPerSecond(cfg.RateLimit),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.emitter == nil {
		r.emitter = output.NewConsoleEmitter(io.Discard)
	}
	if r.lookup == nil {
		r.cache = resolver.NewSystemCache()
		r.lookup = r.cache
	}
	r.resolver = resolver.New(r.lookup, resolver.WithLogger(r.logger))
	if r.detector == nil {
		r.detector = techdetect.NewDetector()
	}
	if r.clients == nil {
		r.clients = r.defaultClients
	}
	if r.fingerprinters == nil {
		r.fingerprinters = r.defaultFingerprinters
	}
	return r
}

// Run dispatches one job per input line and returns when the queue is
// drained, or when ctx is cancelled and every worker has finished the job
// it holds. It returns workerpool.ErrNoWorkers when no worker could start.
func (r *Runner) Run(ctx context.Context, input io.Reader) error {
	if r.cache != nil {
		defer r.cache.Close()
	}
	r.started = time.Now()

	jobs := make(chan job.Job, max(r.cfg.Concurrency, 1))
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	fed := make(chan error, 1)
	go func() {
		fed <- r.feed(feedCtx, input, jobs)
	}()

	pool := workerpool.New(r.cfg.Concurrency, r.newWorker, workerpool.WithLogger(r.logger))
	err := pool.Run(ctx, jobs)
	r.pool = pool.Stats()
	if err != nil {
		return err
	}

	select {
	case err := <-fed:
		return err
	case <-ctx.Done():
		// Reading may still be blocked on the input; nothing waits for it.
		return nil
	}
}

// feed is the single producer. Every line, blank ones included, becomes a
// job. The queue is closed when input ends or ctx is done.
func (r *Runner) feed(ctx context.Context, input io.Reader, jobs chan<- job.Job) error {
	defer close(jobs)

	sc := bufio.NewScanner(input)
	sc.Buffer(make([]byte, 0, defaults.BufferLarge), defaults.BufferMax)
	for sc.Scan() {
		j := job.New(sc.Text(), r.opts)

		if err := r.limiter.Admit(ctx); err != nil {
			r.logger.Warn("dispatch stopped", "host", j.Host, "error", err)
			return nil
		}
		select {
		case jobs <- j:
			r.dispatched.Add(1)
			r.metrics.JobDispatched()
		case <-ctx.Done():
			r.logger.Warn("dispatch stopped", "host", j.Host, "error", ctx.Err())
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return nil
}

// Stats summarizes a finished run.
type Stats struct {
	Dispatched int64
	Workers    workerpool.Stats
	Elapsed    time.Duration
}

// Stats returns counters for the last Run.
func (r *Runner) Stats() Stats {
	var elapsed time.Duration
	if !r.started.IsZero() {
		elapsed = time.Since(r.started)
	}
	return Stats{
		Dispatched: r.dispatched.Load(),
		Workers:    r.pool,
		Elapsed:    elapsed,
	}
}
