// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

// ErrFault is returned by FailingWriter once its budget is spent.
var ErrFault = errors.New("testutil: injected write fault")

// FailingWriter accepts Limit bytes in total and then fails. A partial
// write is reported when a call straddles the limit.
type FailingWriter struct {
	Limit int
	n     int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	room := w.Limit - w.n
	if room >= len(p) {
		w.n += len(p)
		return len(p), nil
	}
	if room < 0 {
		room = 0
	}
	w.n += room
	return room, ErrFault
}

// LeakCheck records the goroutine count at construction.
type LeakCheck struct {
	baseline int
}

// TrackGoroutines starts a LeakCheck.
func TrackGoroutines() *LeakCheck {
	runtime.Gosched()
	return &LeakCheck{baseline: runtime.NumGoroutine()}
}

// CheckLeaks polls for up to two seconds and fails t when more than slack
// goroutines above the baseline remain.
func (c *LeakCheck) CheckLeaks(t *testing.T, slack int) {
	t.Helper()
	limit := c.baseline + slack
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); {
		if runtime.NumGoroutine() <= limit {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > limit {
		t.Errorf("%d goroutines still running, want at most %d", n, limit)
	}
}

// AssertTimeout fails t if fn has not returned within d.
func AssertTimeout(t *testing.T, name string, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		t.Fatalf("%s still running after %v", name, d)
	}
}
