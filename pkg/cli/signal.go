// Package cli holds process framing shared by the hrekt command.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalContext returns a child of parent that is cancelled on SIGINT or
// SIGTERM. Cancellation stops job dispatch; workers finish the job they hold.
// A second signal within gracePeriod exits the process with status 130.
//
// Usage:
//
//	ctx, cancel := cli.SignalContext(context.Background(), duration.ShutdownGrace, logger)
//	defer cancel()
func SignalContext(parent context.Context, gracePeriod time.Duration, logger *slog.Logger) (context.Context, context.CancelFunc) {
	return notifyContext(parent, gracePeriod, logger, nil, nil)
}

// notifyContext lets tests substitute the signal channel and os.Exit.
func notifyContext(
	parent context.Context,
	gracePeriod time.Duration,
	logger *slog.Logger,
	sigChan chan os.Signal,
	exitFn func(int),
) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if logger == nil {
		logger = slog.Default()
	}

	ownChannel := sigChan == nil
	if ownChannel {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	}
	if exitFn == nil {
		exitFn = os.Exit
	}

	go func() {
		defer func() {
			if ownChannel {
				signal.Stop(sigChan)
			}
		}()

		select {
		case sig := <-sigChan:
			logger.Warn("interrupt received, finishing in-flight jobs", "signal", sig.String())
			cancel()

			select {
			case <-sigChan:
				exitFn(130)
			case <-time.After(gracePeriod):
			}
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
