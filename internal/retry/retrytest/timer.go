// Package retrytest provides a deterministic retry.Timer for tests.
package retrytest

import (
	"sync"
	"time"
)

// FakeTimer fires immediately on every Start and records the requested durations.
type FakeTimer struct {
	mu      sync.Mutex
	ch      chan time.Time
	waits   []time.Duration
	OnStart func(d time.Duration)
}

// NewFakeTimer creates a FakeTimer.
func NewFakeTimer() *FakeTimer {
	return &FakeTimer{ch: make(chan time.Time, 1)}
}

// Start records d and makes the timer channel ready.
func (f *FakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	hook := f.OnStart
	select {
	case f.ch <- time.Time{}:
	default:
	}
	f.mu.Unlock()

	if hook != nil {
		hook(d)
	}
}

// Stop drains a pending tick.
func (f *FakeTimer) Stop() {
	select {
	case <-f.ch:
	default:
	}
}

// C returns the tick channel.
func (f *FakeTimer) C() <-chan time.Time {
	return f.ch
}

// Waits returns a copy of every duration passed to Start.
func (f *FakeTimer) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.waits...)
}
