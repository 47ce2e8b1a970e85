package usecase

import (
	"context"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// MovementUseCase records and queries single-bucket movements.
type MovementUseCase struct {
	txManager  TransactionManager
	bucketRepo BucketRepository
	labelRepo  LabelRepository
	entryRepo  LedgerEntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(
	txManager TransactionManager,
	bucketRepo BucketRepository,
	labelRepo LabelRepository,
	entryRepo LedgerEntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:  txManager,
		bucketRepo: bucketRepo,
		labelRepo:  labelRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// DirectMovementInput represents input for a plain expense or credit.
// LabelID optionally tags the movement with one of the owner's labels.
type DirectMovementInput struct {
	OccurredAt *time.Time
	LabelID    *string
	OwnerID    string
	BucketID   string
	Direction  domain.Direction
	Memo       string
	Amount     domain.Cents
}

// UpdateDirectMovementInput represents input for editing a direct movement.
// Nil fields keep the values of the entry being replaced; an empty LabelID
// removes the label.
type UpdateDirectMovementInput struct {
	BucketID   *string
	LabelID    *string
	Direction  *domain.Direction
	Amount     *domain.Cents
	Memo       *string
	OccurredAt *time.Time
	OwnerID    string
	EntryID    string
}

// RecordDirectMovement writes one entry against one bucket. Balances may go
// negative.
func (uc *MovementUseCase) RecordDirectMovement(ctx context.Context, input DirectMovementInput) (*domain.LedgerEntry, error) {
	if err := validateMovement(input.Direction, input.Amount, input.Memo); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bucketRepo.LockOwner(txCtx, tx, input.OwnerID); err != nil {
		return nil, err
	}

	if _, err := uc.bucketRepo.GetByIDTx(txCtx, tx, input.OwnerID, input.BucketID); err != nil {
		return nil, err
	}

	labelID, err := uc.resolveLabel(txCtx, tx, input.OwnerID, input.LabelID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	entry := uc.newDirectEntry(input.OwnerID, input.BucketID, input.Direction, input.Amount, input.Memo, occurredAt, now)
	entry.LabelID = labelID

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeMovement, entry.ID, domain.EventTypeMovementRecorded,
		domain.EntryPayload(entry), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsRecorded.WithLabelValues(string(entry.Direction)).Inc()
	}

	return entry, nil
}

// UpdateDirectMovement replaces a direct movement with an edited copy.
// The replacement gets a new id.
func (uc *MovementUseCase) UpdateDirectMovement(ctx context.Context, input UpdateDirectMovementInput) (*domain.LedgerEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bucketRepo.LockOwner(txCtx, tx, input.OwnerID); err != nil {
		return nil, err
	}

	old, err := uc.getDirect(txCtx, tx, input.OwnerID, input.EntryID)
	if err != nil {
		return nil, err
	}

	bucketID := *old.BucketID
	if input.BucketID != nil {
		bucketID = *input.BucketID
	}
	direction := old.Direction
	if input.Direction != nil {
		direction = *input.Direction
	}
	amount := old.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	memo := old.Memo
	if input.Memo != nil {
		memo = *input.Memo
	}
	occurredAt := old.OccurredAt
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}
	labelID := old.LabelID
	if input.LabelID != nil {
		labelID = input.LabelID
	}

	if err := validateMovement(direction, amount, memo); err != nil {
		return nil, err
	}

	if _, err := uc.bucketRepo.GetByIDTx(txCtx, tx, input.OwnerID, bucketID); err != nil {
		return nil, err
	}

	labelID, err = uc.resolveLabel(txCtx, tx, input.OwnerID, labelID)
	if err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Delete(txCtx, tx, input.OwnerID, old.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := uc.newDirectEntry(input.OwnerID, bucketID, direction, amount, memo, occurredAt, now)
	entry.LabelID = labelID

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	payload := domain.EntryPayload(entry)
	payload["replaces"] = old.ID

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeMovement, entry.ID, domain.EventTypeMovementUpdated,
		payload, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return entry, nil
}

// DeleteDirectMovement removes a direct movement. Income, allocation and debt
// entries are not reachable through this call.
func (uc *MovementUseCase) DeleteDirectMovement(ctx context.Context, ownerID, entryID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bucketRepo.LockOwner(txCtx, tx, ownerID); err != nil {
		return err
	}

	entry, err := uc.getDirect(txCtx, tx, ownerID, entryID)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(txCtx, tx, ownerID, entry.ID); err != nil {
		return err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeMovement, entry.ID, domain.EventTypeMovementDeleted,
		domain.EntryPayload(entry), time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ListEntries returns ledger entries matching filter, newest first.
func (uc *MovementUseCase) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	return uc.entryRepo.List(ctx, filter)
}

func (uc *MovementUseCase) getDirect(ctx context.Context, tx Transaction, ownerID, entryID string) (*domain.LedgerEntry, error) {
	entry, err := uc.entryRepo.GetByIDTx(ctx, tx, ownerID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.Kind != domain.EntryKindDirect || entry.BucketID == nil {
		return nil, domain.ErrEntryNotFound
	}

	return entry, nil
}

// resolveLabel checks that labelID names one of the owner's labels. Nil or
// empty means no label.
func (uc *MovementUseCase) resolveLabel(ctx context.Context, tx Transaction, ownerID string, labelID *string) (*string, error) {
	if labelID == nil || *labelID == "" {
		return nil, nil
	}
	if uc.labelRepo == nil {
		return nil, domain.ErrLabelNotFound
	}

	label, err := uc.labelRepo.GetByIDTx(ctx, tx, ownerID, *labelID)
	if err != nil {
		return nil, err
	}

	return &label.ID, nil
}

func (uc *MovementUseCase) newDirectEntry(
	ownerID, bucketID string,
	direction domain.Direction,
	amount domain.Cents,
	memo string,
	occurredAt, now time.Time,
) *domain.LedgerEntry {
	id := uc.idGen.Generate()

	return &domain.LedgerEntry{
		ID:         id,
		OwnerID:    ownerID,
		BucketID:   &bucketID,
		Kind:       domain.EntryKindDirect,
		Direction:  direction,
		Amount:     amount,
		Memo:       memo,
		GroupKey:   id,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}
}

func validateMovement(direction domain.Direction, amount domain.Cents, memo string) error {
	if !direction.Valid() {
		return domain.ErrInvalidDirection
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	return domain.ValidateMemo(memo)
}
