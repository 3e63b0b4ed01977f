package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
	"github.com/ericfisherdev/cardclaim/internal/retry"
)

// DefaultCycleInterval is the wait between two passes over all accounts.
const DefaultCycleInterval = 4*time.Hour + 10*time.Minute

// triggerRequest asks the run loop for an immediate cycle.
type triggerRequest struct {
	done chan triggerResult
}

type triggerResult struct {
	status model.CycleStatus
	err    error
}

// Scheduler runs the AccountProcessor over every account forever, waiting a
// fixed interval between cycles.
type Scheduler struct {
	store     driven.AccountStore
	processor *AccountProcessor
	interval  time.Duration
	timer     retry.Timer
	now       func() time.Time
	newID     func() string
	triggerCh chan triggerRequest

	mu   sync.RWMutex
	last *model.CycleStatus
}

// NewScheduler creates a Scheduler that waits on timer between cycles.
func NewScheduler(
	store driven.AccountStore,
	processor *AccountProcessor,
	interval time.Duration,
	timer retry.Timer,
) *Scheduler {
	return &Scheduler{
		store:     store,
		processor: processor,
		interval:  interval,
		timer:     timer,
		now:       time.Now,
		newID:     uuid.NewString,
		triggerCh: make(chan triggerRequest),
	}
}

// Interval returns the wait between cycles.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run executes a cycle immediately and then one per interval. A failed cycle
// is logged and the loop carries on. Run blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			slog.Info("scheduler stopped")
			return
		}

		_, _ = s.RunCycle(ctx)

		if !s.wait(ctx) {
			slog.Info("scheduler stopped")
			return
		}
	}
}

// wait blocks for one interval, serving manual trigger requests meanwhile.
// Each triggered cycle restarts the interval. It returns false when ctx ends.
func (s *Scheduler) wait(ctx context.Context) bool {
	slog.Info("waiting before repeating the process", "interval", s.interval)

	s.timer.Start(s.interval)
	defer s.timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-s.timer.C():
			return true
		case req := <-s.triggerCh:
			status, err := s.RunCycle(ctx)
			req.done <- triggerResult{status: status, err: err}
			s.timer.Stop()
			s.timer.Start(s.interval)
		}
	}
}

// Trigger requests an immediate cycle from the running loop and blocks until
// it completes or ctx is canceled.
func (s *Scheduler) Trigger(ctx context.Context) (model.CycleStatus, error) {
	req := triggerRequest{done: make(chan triggerResult, 1)}

	select {
	case s.triggerCh <- req:
	case <-ctx.Done():
		return model.CycleStatus{}, ctx.Err()
	}

	select {
	case res := <-req.done:
		return res.status, res.err
	case <-ctx.Done():
		return model.CycleStatus{}, ctx.Err()
	}
}

// RunCycle reloads the credential file and processes every account once, in
// file order. The first login or listing failure ends the cycle; the accounts
// after it wait for the next cycle.
func (s *Scheduler) RunCycle(ctx context.Context) (model.CycleStatus, error) {
	status := model.CycleStatus{
		CycleID:   s.newID(),
		StartedAt: s.now(),
	}

	err := s.processAll(ctx, &status)
	status.FinishedAt = s.now()

	if err != nil {
		status.Err = err.Error()
		slog.Error("error in cycle, remaining accounts skipped until next cycle",
			"cycle_id", status.CycleID,
			"processed", status.Processed,
			"accounts", status.Accounts,
			"error", err,
		)
	} else {
		slog.Info("finished processing all accounts and cards",
			"cycle_id", status.CycleID,
			"accounts", status.Accounts,
			"activations", status.Activations,
			"duration", status.FinishedAt.Sub(status.StartedAt).Round(time.Millisecond),
		)
	}

	s.mu.Lock()
	s.last = &status
	s.mu.Unlock()

	return status, err
}

func (s *Scheduler) processAll(ctx context.Context, status *model.CycleStatus) error {
	groups, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading accounts: %w", err)
	}

	accounts := model.Flatten(groups)
	status.Accounts = len(accounts)

	for _, account := range accounts {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		res, err := s.processor.Process(ctx, status.CycleID, account)
		if err != nil {
			return err
		}
		status.Processed++
		status.Activations += res.Activated
	}

	return nil
}

// LastCycle returns the status of the most recent cycle, if any has run.
func (s *Scheduler) LastCycle() (model.CycleStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return model.CycleStatus{}, false
	}
	return *s.last, true
}
