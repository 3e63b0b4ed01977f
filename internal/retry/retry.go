// Package retry wraps remote calls with bounded retry-on-gateway-timeout semantics.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// ErrExhausted matches any *ExhaustedError via errors.Is.
var ErrExhausted = errors.New("retries exhausted")

// ExhaustedError is returned when every attempt allowed by a policy ended in a
// gateway timeout.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("exhausted retries after %d attempts for 504 gateway timeout: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// StatusCoder is implemented by errors that carry an HTTP response status.
type StatusCoder interface {
	StatusCode() int
}

// IsGatewayTimeout reports whether err carries an HTTP 504 status anywhere in its chain.
func IsGatewayTimeout(err error) bool {
	var sc StatusCoder
	return errors.As(err, &sc) && sc.StatusCode() == http.StatusGatewayTimeout
}

// Timer is the wait primitive used between attempts. It is the backoff
// library's timer contract so tests can substitute a fake.
type Timer = backoff.Timer

// NewTimer returns a Timer backed by time.Timer.
func NewTimer() Timer {
	return &realTimer{}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = time.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *realTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *realTimer) C() <-chan time.Time {
	return t.timer.C
}

// Caller runs operations under a RetryPolicy.
type Caller struct {
	newTimer func() Timer
}

// NewCaller creates a Caller that waits on real timers.
func NewCaller() *Caller {
	return &Caller{newTimer: NewTimer}
}

// NewCallerWithTimer creates a Caller that waits on the given timer. Intended
// for tests; the timer is shared across invocations.
func NewCallerWithTimer(t Timer) *Caller {
	return &Caller{newTimer: func() Timer { return t }}
}

// Do runs op until it succeeds, fails with anything other than a gateway
// timeout, or the policy's attempts are used up. Non-timeout errors are
// returned unchanged after a single attempt.
func Do[T any](ctx context.Context, c *Caller, policy model.RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	maxAttempts := policy.Attempts()

	var (
		result  T
		attempt int
	)

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), uint64(maxAttempts-1)),
		ctx,
	)

	operation := func() error {
		attempt++
		res, err := op(ctx)
		if err == nil {
			result = res
			return nil
		}
		if !IsGatewayTimeout(err) {
			slog.Error("request failed", "attempt", attempt, "error", err)
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(_ error, wait time.Duration) {
		slog.Warn("504 gateway timeout, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"delay", wait,
		)
	}

	err := backoff.RetryNotifyWithTimer(operation, b, notify, c.newTimer())
	if err != nil {
		var zero T
		if IsGatewayTimeout(err) && attempt >= maxAttempts {
			slog.Error("exhausted retries for 504 gateway timeout", "attempts", maxAttempts)
			return zero, &ExhaustedError{Attempts: maxAttempts, Err: err}
		}
		return zero, err
	}

	return result, nil
}
