package driven

import (
	"context"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// AuthClient exchanges account credentials for a bearer token.
type AuthClient interface {
	Login(ctx context.Context, email, secret string) (string, error)
}

// CardClient lists and activates cards on behalf of a token holder.
type CardClient interface {
	ListCards(ctx context.Context, token string) ([]model.Card, error)

	// ActivateCard returns nil when activation did not succeed for any reason.
	// Failures are logged by the implementation and never returned.
	ActivateCard(ctx context.Context, token string, taskID model.TaskID) *model.ActivationResult
}
