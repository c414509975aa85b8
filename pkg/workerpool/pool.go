// Package workerpool runs a fixed number of stateful consumers over a job
// channel. Every worker builds its own private resources through a factory
// and keeps them for its whole lifetime, so handlers never need locking.
// Each job sent on the channel is handled by exactly one worker.
package workerpool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Handler processes jobs for a single worker. It is never called
// concurrently.
type Handler[J any] interface {
	Handle(ctx context.Context, j J)
	Close() error
}

// Factory builds the handler for worker slot id. A returned error disables
// that slot only.
type Factory[J any] func(ctx context.Context, id int) (Handler[J], error)

// HandlerFunc adapts a function to a Handler with a no-op Close.
type HandlerFunc[J any] func(ctx context.Context, j J)

// Handle calls f(ctx, j).
func (f HandlerFunc[J]) Handle(ctx context.Context, j J) { f(ctx, j) }

// Close does nothing.
func (f HandlerFunc[J]) Close() error { return nil }

// Option configures a Pool.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for slot failures and recovered panics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Pool is a fixed set of worker slots.
type Pool[J any] struct {
	size    int
	factory Factory[J]
	logger  *slog.Logger

	started   atomic.Int64
	failed    atomic.Int64
	processed atomic.Int64
	panics    atomic.Int64
}

// New creates a pool with size slots. size <= 0 means one slot.
func New[J any](size int, factory Factory[J], opts ...Option) *Pool[J] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if size <= 0 {
		size = 1
	}
	return &Pool[J]{size: size, factory: factory, logger: o.logger}
}

// Run starts every slot and drains jobs until it is closed or ctx is done.
// A worker finishes the job it holds before exiting. Run returns after all
// workers exit; it returns ErrNoWorkers when no slot could be started.
func (p *Pool[J]) Run(ctx context.Context, jobs <-chan J) error {
	var wg sync.WaitGroup
	for id := 0; id < p.size; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, jobs)
		}(id)
	}
	wg.Wait()

	if p.started.Load() == 0 {
		return fmt.Errorf("%w: %d slots failed", ErrNoWorkers, p.failed.Load())
	}
	return nil
}

func (p *Pool[J]) worker(ctx context.Context, id int, jobs <-chan J) {
	h, err := p.factory(ctx, id)
	if err != nil {
		p.failed.Add(1)
		p.logger.Warn("worker slot failed to start", "worker", id, "error", err)
		return
	}
	p.started.Add(1)
	defer func() {
		if err := h.Close(); err != nil {
			p.logger.Warn("worker close failed", "worker", id, "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			p.handle(ctx, id, h, j)
		}
	}
}

func (p *Pool[J]) handle(ctx context.Context, id int, h Handler[J], j J) {
	defer func() {
		p.processed.Add(1)
		if r := recover(); r != nil {
			p.panics.Add(1)
			p.logger.Error("recovered panic in worker",
				"worker", id, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h.Handle(ctx, j)
}

// Size returns the number of slots.
func (p *Pool[J]) Size() int {
	return p.size
}

// Stats holds pool counters.
type Stats struct {
	Size      int
	Started   int64
	Failed    int64
	Processed int64
	Panics    int64
}

// Stats returns current pool counters.
func (p *Pool[J]) Stats() Stats {
	return Stats{
		Size:      p.size,
		Started:   p.started.Load(),
		Failed:    p.failed.Load(),
		Processed: p.processed.Load(),
		Panics:    p.panics.Load(),
	}
}
