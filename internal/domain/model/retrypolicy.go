package model

import "time"

// RetryPolicy governs how many times a call class is attempted when the remote
// side answers with a gateway timeout, and how long to wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Retry budgets used when no configuration overrides them.
const (
	DefaultMaxAttempts    = 10
	ActivationMaxAttempts = 3
	DefaultRetryDelay     = 10 * time.Minute
)

// DefaultRetryPolicy is the budget for login and card listing.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultRetryDelay}
}

// ActivationRetryPolicy is the reduced, best-effort budget for card activation.
func ActivationRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: ActivationMaxAttempts, Delay: DefaultRetryDelay}
}

// Attempts returns MaxAttempts clamped to at least one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
