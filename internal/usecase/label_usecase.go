package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/shareledger/internal/domain"
)

// LabelUseCase manages the owner's expense labels.
type LabelUseCase struct {
	txManager  TransactionManager
	bucketRepo BucketRepository
	labelRepo  LabelRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewLabelUseCase creates a new LabelUseCase. bucketRepo supplies the
// per-owner lock shared with every other mutation.
func NewLabelUseCase(
	txManager TransactionManager,
	bucketRepo BucketRepository,
	labelRepo LabelRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *LabelUseCase {
	return &LabelUseCase{
		txManager:  txManager,
		bucketRepo: bucketRepo,
		labelRepo:  labelRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// CreateLabel adds a label. A name the owner already uses fails with
// domain.ErrLabelExists.
func (uc *LabelUseCase) CreateLabel(ctx context.Context, ownerID, name string) (*domain.Label, error) {
	name, err := domain.NormalizeLabelName(name)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bucketRepo.LockOwner(txCtx, tx, ownerID); err != nil {
		return nil, err
	}

	if err := uc.ensureNameFree(txCtx, tx, ownerID, name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	label := &domain.Label{
		ID:        uc.idGen.Generate(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.labelRepo.Create(txCtx, tx, label); err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeLabel, label.ID, domain.EventTypeLabelCreated,
		domain.LabelPayload(label), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return label, nil
}

// RenameLabel changes a label's name.
func (uc *LabelUseCase) RenameLabel(ctx context.Context, ownerID, labelID, name string) (*domain.Label, error) {
	name, err := domain.NormalizeLabelName(name)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.bucketRepo.LockOwner(txCtx, tx, ownerID); err != nil {
		return nil, err
	}

	label, err := uc.labelRepo.GetByIDTx(txCtx, tx, ownerID, labelID)
	if err != nil {
		return nil, err
	}

	if label.Name == name {
		return label, nil
	}

	if err := uc.ensureNameFree(txCtx, tx, ownerID, name, label.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	label.Name = name
	label.UpdatedAt = now

	if err := uc.labelRepo.Update(txCtx, tx, label); err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeLabel, label.ID, domain.EventTypeLabelUpdated,
		domain.LabelPayload(label), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return label, nil
}

// DeleteLabel removes a label no ledger entry is tagged with.
func (uc *LabelUseCase) DeleteLabel(ctx context.Context, ownerID, labelID string) error {
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

	label, err := uc.labelRepo.GetByIDTx(txCtx, tx, ownerID, labelID)
	if err != nil {
		return err
	}

	refs, err := uc.labelRepo.CountEntries(txCtx, tx, ownerID, labelID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d entries", domain.ErrLabelInUse, refs)
	}

	if err := uc.labelRepo.Delete(txCtx, tx, ownerID, labelID); err != nil {
		return err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeLabel, label.ID, domain.EventTypeLabelDeleted,
		domain.LabelPayload(label), time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ListLabels returns the owner's labels ordered by name.
func (uc *LabelUseCase) ListLabels(ctx context.Context, ownerID string) ([]*domain.Label, error) {
	return uc.labelRepo.ListByOwner(ctx, ownerID)
}

func (uc *LabelUseCase) ensureNameFree(ctx context.Context, tx Transaction, ownerID, name, selfID string) error {
	existing, err := uc.labelRepo.GetByNameTx(ctx, tx, ownerID, name)
	switch {
	case errors.Is(err, domain.ErrLabelNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("%w: %q", domain.ErrLabelExists, name)
	}
	return nil
}
