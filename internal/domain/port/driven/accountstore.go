package driven

import (
	"context"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// AccountStore defines the driven port for the durable account/token record.
type AccountStore interface {
	// Load returns every account group in file order. It re-reads the backing
	// store on each call so external edits are picked up.
	Load(ctx context.Context) ([]model.AccountGroup, error)

	// UpdateToken replaces the cached token of every record with the given
	// email, leaving all other records untouched. Calling it twice with the
	// same token is a no-op the second time.
	UpdateToken(ctx context.Context, email, token string) error
}
