// Package application contains the card-claiming use cases.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
)

// ProcessResult counts what happened to one account's cards in a cycle.
type ProcessResult struct {
	TokenRefreshed   bool
	Cards            int
	Activated        int
	Failed           int
	AlreadyActivated int
	NotEligible      int
}

// AccountProcessor runs the per-account flow: reuse or acquire a token,
// persist a new one, list cards and activate the eligible ones.
type AccountProcessor struct {
	auth        driven.AuthClient
	cards       driven.CardClient
	store       driven.AccountStore
	activations driven.ActivationLog
	now         func() time.Time
}

// NewAccountProcessor creates an AccountProcessor. activations may be nil, in
// which case activation attempts are only logged.
func NewAccountProcessor(
	auth driven.AuthClient,
	cards driven.CardClient,
	store driven.AccountStore,
	activations driven.ActivationLog,
) *AccountProcessor {
	return &AccountProcessor{
		auth:        auth,
		cards:       cards,
		store:       store,
		activations: activations,
		now:         time.Now,
	}
}

// Process handles one account. Login, token persistence and card listing
// failures are returned; activation failures are counted and never returned.
func (p *AccountProcessor) Process(ctx context.Context, cycleID string, account model.Account) (ProcessResult, error) {
	var res ProcessResult

	token, refreshed, err := p.ensureToken(ctx, account)
	if err != nil {
		return res, err
	}
	res.TokenRefreshed = refreshed

	slog.Info("processing cards", "email", account.Email, "cycle_id", cycleID)

	cards, err := p.cards.ListCards(ctx, token)
	if err != nil {
		return res, fmt.Errorf("listing cards for %s: %w", account.Email, err)
	}
	res.Cards = len(cards)

	for _, card := range cards {
		switch {
		case card.CanActivate():
			slog.Info("activating card", "email", account.Email, "task_id", card.TaskID)
			result := p.cards.ActivateCard(ctx, token, card.TaskID)
			if result != nil {
				res.Activated++
			} else {
				res.Failed++
			}
			p.record(ctx, cycleID, account.Email, card.TaskID, result)

		case card.IsActivated():
			res.AlreadyActivated++
			slog.Info("card already activated, skipping", "email", account.Email, "task_id", card.TaskID)

		default:
			res.NotEligible++
			slog.Info("skipping card", "email", account.Email, "task_id", card.TaskID, "user_status", int(card.UserStatus))
		}
	}

	slog.Info("account processed",
		"email", account.Email,
		"cycle_id", cycleID,
		"cards", res.Cards,
		"activated", res.Activated,
		"failed", res.Failed,
		"already_activated", res.AlreadyActivated,
		"not_eligible", res.NotEligible,
	)

	return res, nil
}

// ensureToken returns the cached token, or logs in and writes the new token
// back to the store before returning it.
func (p *AccountProcessor) ensureToken(ctx context.Context, account model.Account) (string, bool, error) {
	if account.HasToken() {
		token := strings.TrimSpace(account.Token)
		if exp, expired := tokenExpired(token, p.now()); expired {
			slog.Warn("cached token appears expired, reusing it anyway", "email", account.Email, "expired_at", exp)
		}
		return token, false, nil
	}

	slog.Info("no token found, fetching a new one", "email", account.Email)

	token, err := p.auth.Login(ctx, account.Email, account.Secret)
	if err != nil {
		return "", false, fmt.Errorf("logging in %s: %w", account.Email, err)
	}

	if err := p.store.UpdateToken(ctx, account.Email, token); err != nil {
		return "", false, fmt.Errorf("persisting token for %s: %w", account.Email, err)
	}

	return token, true, nil
}

// record writes an activation attempt to the audit trail. Failures are logged
// and never interrupt card processing.
func (p *AccountProcessor) record(ctx context.Context, cycleID, email string, taskID model.TaskID, result *model.ActivationResult) {
	if p.activations == nil {
		return
	}

	rec := model.ActivationRecord{
		CycleID:     cycleID,
		Email:       email,
		TaskID:      taskID,
		Activated:   result != nil,
		Message:     "activation failed",
		AttemptedAt: p.now(),
	}
	if result != nil {
		rec.Message = result.Msg
	}

	if _, err := p.activations.Record(ctx, rec); err != nil {
		slog.Error("failed to record activation", "email", email, "task_id", taskID, "error", err)
	}
}
