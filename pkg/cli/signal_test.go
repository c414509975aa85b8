package cli

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrekt/hrekt/pkg/logging"
)

func TestSignalContext_CancelOnInterrupt(t *testing.T) {
	sigChan := make(chan os.Signal, 1)
	ctx, cancel := notifyContext(context.Background(), 5*time.Second, logging.Discard(), sigChan, nil)
	defer cancel()

	sigChan <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled after signal")
	}
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := notifyContext(parent, 5*time.Second, logging.Discard(), make(chan os.Signal, 1), nil)
	defer cancel()

	parentCancel()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context did not follow its parent")
	}
}

func TestSignalContext_SecondSignalExits(t *testing.T) {
	sigChan := make(chan os.Signal, 2)
	var exitCode atomic.Int32
	exitCode.Store(-1)

	ctx, cancel := notifyContext(context.Background(), 5*time.Second, logging.Discard(), sigChan,
		func(code int) { exitCode.Store(int32(code)) })
	defer cancel()

	sigChan <- os.Interrupt
	<-ctx.Done()
	sigChan <- os.Interrupt

	require.Eventually(t, func() bool { return exitCode.Load() == 130 }, 2*time.Second, 10*time.Millisecond)
}

func TestSignalContext_GraceExpires(t *testing.T) {
	sigChan := make(chan os.Signal, 1)
	var exitCalled atomic.Bool

	_, cancel := notifyContext(context.Background(), 50*time.Millisecond, logging.Discard(), sigChan,
		func(int) { exitCalled.Store(true) })
	defer cancel()

	sigChan <- os.Interrupt
	time.Sleep(200 * time.Millisecond)

	assert.False(t, exitCalled.Load(), "a single signal never forces exit")
}

func TestSignalContext_NoSignal(t *testing.T) {
	ctx, cancel := notifyContext(context.Background(), time.Second, nil, make(chan os.Signal, 1), nil)
	defer cancel()

	assert.NoError(t, ctx.Err())
}
