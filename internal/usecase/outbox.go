package usecase

import (
	"context"
	"time"

	"github.com/iho/shareledger/internal/domain"
)

// emit writes an outbox event inside tx so it commits or rolls back with the change.
func emit(
	ctx context.Context,
	tx Transaction,
	repo OutboxRepository,
	idGen IDGenerator,
	ownerID, aggregateType, aggregateID, eventType string,
	payload map[string]any,
	now time.Time,
) error {
	if repo == nil {
		return nil
	}

	return repo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		OwnerID:       ownerID,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	})
}
