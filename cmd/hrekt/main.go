// Command hrekt probes hosts read from stdin for live HTTP and HTTPS
// services and prints one line per matching candidate.
//
//	cat hosts.txt | hrekt -p 80,443,8080 -title -sc -x /admin
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/hrekt/hrekt/pkg/cli"
	"github.com/hrekt/hrekt/pkg/config"
	"github.com/hrekt/hrekt/pkg/defaults"
	"github.com/hrekt/hrekt/pkg/duration"
	"github.com/hrekt/hrekt/pkg/logging"
	"github.com/hrekt/hrekt/pkg/metrics"
	"github.com/hrekt/hrekt/pkg/output"
	"github.com/hrekt/hrekt/pkg/runner"
	"github.com/hrekt/hrekt/pkg/techdetect"
	"github.com/hrekt/hrekt/pkg/ui"
	"github.com/hrekt/hrekt/pkg/workerpool"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr *os.File) int {
	cfg, warnings, err := config.Parse(args, stderr)
	if errors.Is(err, config.ErrHelp) {
		return defaults.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return defaults.ExitUserError
	}

	ui.SetSilent(cfg.Silent)
	ui.SetNoColor(cfg.NoColor || !ui.ColorEnabled(stderr))
	logger := logging.Setup(logging.Config{Debug: cfg.Debug, NoColor: ui.IsNoColor(), Output: stderr})

	ui.PrintBanner(stderr)
	for _, w := range append(warnings, cfg.PatternWarnings()...) {
		ui.PrintWarning(stderr, w)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return defaults.ExitUserError
	}

	runtime.GOMAXPROCS(cfg.Workers)

	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithEmitter(newEmitter(cfg, stdout)),
	}

	if cfg.Tech {
		detector, err := loadDetector(cfg.Fingerprints)
		if err != nil {
			logger.Error("load fingerprints", "file", cfg.Fingerprints, "error", err)
			return defaults.ExitUserError
		}
		opts = append(opts, runner.WithDetector(detector))
	}

	if cfg.MetricsAddr != "" {
		m := metrics.New()
		srv, err := m.StartServer(cfg.MetricsAddr, logger)
		if err != nil {
			logger.Error("metrics listener", "addr", cfg.MetricsAddr, "error", err)
			return defaults.ExitStartupError
		}
		defer srv.Close()
		opts = append(opts, runner.WithMetrics(m))
	}

	ctx, cancel := cli.SignalContext(context.Background(), duration.ShutdownGrace, logger)
	defer cancel()

	r := runner.New(cfg, opts...)
	err = r.Run(ctx, stdin)
	stats := r.Stats()
	logger.Debug("run finished",
		slog.Int64("dispatched", stats.Dispatched),
		slog.Int64("processed", stats.Workers.Processed),
		slog.Int64("workers", stats.Workers.Started),
		slog.Int64("failed_workers", stats.Workers.Failed),
		slog.Duration("elapsed", stats.Elapsed))

	switch {
	case err == nil:
		return defaults.ExitSuccess
	case errors.Is(err, workerpool.ErrNoWorkers):
		logger.Error("no worker could start", "error", err)
		return defaults.ExitStartupError
	default:
		logger.Error("run failed", "error", err)
		return defaults.ExitInternalError
	}
}

func newEmitter(cfg *config.Config, stdout io.Writer) output.Emitter {
	if cfg.JSONLines {
		return output.NewJSONLEmitter(stdout)
	}
	noColor := cfg.NoColor
	if f, ok := stdout.(*os.File); ok && !ui.ColorEnabled(f) {
		noColor = true
	}
	return output.NewConsoleEmitter(stdout, output.WithNoColor(noColor))
}

func loadDetector(path string) (*techdetect.Detector, error) {
	d := techdetect.NewDetector()
	if path == "" {
		return d, nil
	}
	fps, err := techdetect.LoadFingerprints(path)
	if err != nil {
		return nil, err
	}
	if err := d.AddAll(fps); err != nil {
		return nil, err
	}
	return d, nil
}
