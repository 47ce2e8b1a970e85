package usecase

import (
	"context"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// IncomeUseCase splits incoming money across an owner's buckets.
type IncomeUseCase struct {
	txManager  TransactionManager
	bucketRepo BucketRepository
	entryRepo  LedgerEntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewIncomeUseCase creates a new IncomeUseCase.
func NewIncomeUseCase(
	txManager TransactionManager,
	bucketRepo BucketRepository,
	entryRepo LedgerEntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *IncomeUseCase {
	return &IncomeUseCase{
		txManager:  txManager,
		bucketRepo: bucketRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// RecordIncomeInput represents input for recording an income.
type RecordIncomeInput struct {
	OccurredAt *time.Time
	OwnerID    string
	Memo       string
	Amount     domain.Cents
}

// UpdateIncomeInput represents input for editing an income. Nil fields keep
// the values of the income being replaced.
type UpdateIncomeInput struct {
	Amount     *domain.Cents
	Memo       *string
	OccurredAt *time.Time
	OwnerID    string
	GroupKey   string
}

// RecordIncome writes one parent entry and one allocation per bucket, all
// under a new group key, in a single transaction.
func (uc *IncomeUseCase) RecordIncome(ctx context.Context, input RecordIncomeInput) (*domain.IncomeAllocation, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateMemo(input.Memo); err != nil {
		return nil, err
	}

	start := time.Now()

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

	now := time.Now().UTC()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	result, err := uc.splitInto(txCtx, tx, input.OwnerID, uc.idGen.Generate(), input.Amount, input.Memo, occurredAt, now)
	if err != nil {
		uc.countError("record_income")
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeIncome, result.GroupKey, domain.EventTypeIncomeRecorded,
		domain.IncomePayload(result), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		uc.countError("record_income")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncomesRecorded.Inc()
		uc.metrics.IncomeAmount.Observe(result.TotalAmount.Decimal().InexactFloat64())
		uc.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

// UpdateIncome replaces an income: the old parent and every allocation are
// deleted and the merged values are split again under the same group key,
// using the owner's current shares.
func (uc *IncomeUseCase) UpdateIncome(ctx context.Context, input UpdateIncomeInput) (*domain.IncomeAllocation, error) {
	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}
	if input.Memo != nil {
		if err := domain.ValidateMemo(*input.Memo); err != nil {
			return nil, err
		}
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

	parent, err := uc.getParent(txCtx, tx, input.OwnerID, input.GroupKey)
	if err != nil {
		return nil, err
	}

	amount := parent.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	memo := parent.Memo
	if input.Memo != nil {
		memo = *input.Memo
	}
	occurredAt := parent.OccurredAt
	if input.OccurredAt != nil {
		occurredAt = input.OccurredAt.UTC()
	}

	if _, err := uc.entryRepo.DeleteGroup(txCtx, tx, input.OwnerID, input.GroupKey); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	result, err := uc.splitInto(txCtx, tx, input.OwnerID, input.GroupKey, amount, memo, occurredAt, now)
	if err != nil {
		uc.countError("update_income")
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeIncome, result.GroupKey, domain.EventTypeIncomeUpdated,
		domain.IncomePayload(result), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		uc.countError("update_income")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncomesReversed.Inc()
	}

	return result, nil
}

// DeleteIncome removes an income parent together with all of its allocations.
func (uc *IncomeUseCase) DeleteIncome(ctx context.Context, ownerID, groupKey string) error {
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

	parent, err := uc.getParent(txCtx, tx, ownerID, groupKey)
	if err != nil {
		return err
	}

	if _, err := uc.entryRepo.DeleteGroup(txCtx, tx, ownerID, groupKey); err != nil {
		return err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeIncome, groupKey, domain.EventTypeIncomeDeleted,
		domain.EntryPayload(parent), time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.IncomesReversed.Inc()
	}

	return nil
}

// ListIncome returns the owner's incomes, newest first, each with its allocations.
func (uc *IncomeUseCase) ListIncome(ctx context.Context, ownerID string, limit, offset int) ([]*domain.IncomeAllocation, error) {
	limit, offset = domain.ClampPagination(limit, offset)

	parents, err := uc.entryRepo.ListIncomeParents(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return []*domain.IncomeAllocation{}, nil
	}

	keys := make([]string, len(parents))
	for i, p := range parents {
		keys[i] = p.GroupKey
	}

	children, err := uc.entryRepo.ListByGroups(ctx, ownerID, keys)
	if err != nil {
		return nil, err
	}

	buckets, err := uc.bucketRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(buckets))
	for _, b := range buckets {
		names[b.ID] = b.Name
	}

	byGroup := make(map[string][]domain.Allocation, len(parents))
	for _, c := range children {
		if c.BucketID == nil {
			continue
		}
		byGroup[c.GroupKey] = append(byGroup[c.GroupKey], domain.Allocation{
			BucketID:   *c.BucketID,
			BucketName: names[*c.BucketID],
			Amount:     c.Amount,
		})
	}

	result := make([]*domain.IncomeAllocation, len(parents))
	for i, p := range parents {
		result[i] = &domain.IncomeAllocation{
			GroupKey:    p.GroupKey,
			ParentID:    p.ID,
			TotalAmount: p.Amount,
			Memo:        p.Memo,
			OccurredAt:  p.OccurredAt,
			Allocations: byGroup[p.GroupKey],
		}
	}

	return result, nil
}

// splitInto reads the owner's buckets inside tx and writes the parent and
// allocation entries for amount under groupKey.
func (uc *IncomeUseCase) splitInto(
	ctx context.Context,
	tx Transaction,
	ownerID, groupKey string,
	amount domain.Cents,
	memo string,
	occurredAt, now time.Time,
) (*domain.IncomeAllocation, error) {
	buckets, err := uc.bucketRepo.ListByOwnerTx(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}

	allocations, err := domain.Split(amount, buckets)
	if err != nil {
		return nil, err
	}

	parent := &domain.LedgerEntry{
		ID:         uc.idGen.Generate(),
		OwnerID:    ownerID,
		Kind:       domain.EntryKindIncome,
		Direction:  domain.DirectionCredit,
		Amount:     amount,
		Memo:       memo,
		GroupKey:   groupKey,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}
	if err := uc.entryRepo.Create(ctx, tx, parent); err != nil {
		return nil, err
	}

	for _, a := range allocations {
		bucketID := a.BucketID
		child := &domain.LedgerEntry{
			ID:         uc.idGen.Generate(),
			OwnerID:    ownerID,
			BucketID:   &bucketID,
			Kind:       domain.EntryKindAllocation,
			Direction:  domain.DirectionCredit,
			Amount:     a.Amount,
			Memo:       memo,
			GroupKey:   groupKey,
			OccurredAt: occurredAt,
			CreatedAt:  now,
		}
		if err := uc.entryRepo.Create(ctx, tx, child); err != nil {
			return nil, err
		}
	}

	return &domain.IncomeAllocation{
		GroupKey:    groupKey,
		ParentID:    parent.ID,
		TotalAmount: amount,
		Memo:        memo,
		OccurredAt:  occurredAt,
		Allocations: allocations,
	}, nil
}

func (uc *IncomeUseCase) getParent(ctx context.Context, tx Transaction, ownerID, groupKey string) (*domain.LedgerEntry, error) {
	entries, err := uc.entryRepo.GetGroupTx(ctx, tx, ownerID, groupKey)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.IsIncomeParent() {
			return e, nil
		}
	}

	return nil, domain.ErrIncomeNotFound
}

func (uc *IncomeUseCase) countError(operation string) {
	if uc.metrics != nil {
		uc.metrics.OperationErrors.WithLabelValues(operation).Inc()
	}
}
