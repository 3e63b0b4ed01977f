package driven

import (
	"context"

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
)

// ActivationLog defines the driven port for the activation audit trail.
type ActivationLog interface {
	Record(ctx context.Context, rec model.ActivationRecord) (model.ActivationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.ActivationRecord, error)
}
