package runner

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hrekt/hrekt/pkg/analyzer"
	"github.com/hrekt/hrekt/pkg/httpclient"
	"github.com/hrekt/hrekt/pkg/job"
	"github.com/hrekt/hrekt/pkg/metrics"
	"github.com/hrekt/hrekt/pkg/output"
	"github.com/hrekt/hrekt/pkg/prober"
	"github.com/hrekt/hrekt/pkg/techdetect"
	"github.com/hrekt/hrekt/pkg/workerpool"
)

// Fingerprinter is a worker's technology scanner. Close releases its
// browser.
type Fingerprinter interface {
	techdetect.Scanner
	Close()
}

// ClientFactory builds the HTTP client owned by worker id.
type ClientFactory func(id int) (*http.Client, error)

// FingerprinterFactory builds the scanner owned by worker id.
type FingerprinterFactory func(ctx context.Context, id int) (Fingerprinter, error)

// worker owns one HTTP client and at most one fingerprinter for its whole
// lifetime.
type worker struct {
	id      int
	prober  *prober.Prober
	scanner Fingerprinter
	emitter output.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ workerpool.Handler[job.Job] = (*worker)(nil)

// newWorker is the workerpool factory.
func (r *Runner) newWorker(ctx context.Context, id int) (workerpool.Handler[job.Job], error) {
	client, err := r.clients(id)
	if err != nil {
		return nil, fmt.Errorf("%w: worker %d client: %v", ErrWorkerStart, id, err)
	}

	w := &worker{
		id:      id,
		emitter: r.emitter,
		metrics: r.metrics,
		logger:  r.logger.With("worker", id),
	}

	aopts := []analyzer.Option{analyzer.WithLogger(w.logger)}
	if r.cfg.Tech {
		// The browser outlives the run context so the job in hand can finish.
		scanner, err := r.fingerprinters(context.WithoutCancel(ctx), id)
		if techdetect.IsUnavailable(err) {
			return nil, fmt.Errorf("%w: worker %d: %w (install Chrome or set -chrome-path)", ErrWorkerStart, id, err)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: worker %d browser: %v", ErrWorkerStart, id, err)
		}
		w.scanner = scanner
		aopts = append(aopts, analyzer.WithScanner(scanner))
	}

	w.prober = prober.New(client, analyzer.New(aopts...),
		prober.WithResolver(r.resolver),
		prober.WithMaxBody(r.cfg.MaxBody),
		prober.WithMetrics(r.metrics),
		prober.WithLogger(w.logger),
	)
	return w, nil
}

// Handle probes every candidate of j and emits the survivors. The job in
// hand is finished even after cancellation.
func (w *worker) Handle(ctx context.Context, j job.Job) {
	results := w.prober.ProcessJob(context.WithoutCancel(ctx), j)
	for i := range results {
		res := &results[i]
		w.metrics.Match(output.Classify(res.StatusCode).String())
		if err := w.emitter.Emit(res); err != nil {
			w.logger.Warn("emit failed", "url", res.URL, "error", err)
		}
	}
}

func (w *worker) Close() error {
	if w.scanner != nil {
		w.scanner.Close()
	}
	return nil
}

// defaultClients builds one client per worker from the run configuration.
func (r *Runner) defaultClients(int) (*http.Client, error) {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = r.cfg.Timeout
	cfg.FollowRedirects = r.cfg.FollowRedirects
	cfg.Proxy = r.cfg.Proxy
	return httpclient.New(cfg)
}

// defaultFingerprinters launches one headless Chrome per worker.
func (r *Runner) defaultFingerprinters(ctx context.Context, _ int) (Fingerprinter, error) {
	b, err := techdetect.NewBrowser(ctx, techdetect.BrowserConfig{
		ExecPath: r.cfg.ChromePath,
		Proxy:    r.cfg.Proxy,
		Detector: r.detector,
		Logger:   r.logger,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
