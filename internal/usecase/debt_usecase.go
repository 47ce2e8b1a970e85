package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// DebtUseCase tracks money lent and borrowed. Lending out of a bucket moves
// money in the ledger; borrowing never does.
type DebtUseCase struct {
	txManager  TransactionManager
	bucketRepo BucketRepository
	entryRepo  LedgerEntryRepository
	debtRepo   DebtRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewDebtUseCase creates a new DebtUseCase.
func NewDebtUseCase(
	txManager TransactionManager,
	bucketRepo BucketRepository,
	entryRepo LedgerEntryRepository,
	debtRepo DebtRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DebtUseCase {
	return &DebtUseCase{
		txManager:  txManager,
		bucketRepo: bucketRepo,
		entryRepo:  entryRepo,
		debtRepo:   debtRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// CreateDebtInput represents input for creating a debt.
type CreateDebtInput struct {
	BucketID    *string
	DueDate     *time.Time
	OwnerID     string
	PersonName  string
	Description string
	Type        domain.DebtType
	Amount      domain.Cents
}

// DebtList is a filtered listing with totals over unpaid debts.
type DebtList struct {
	Debts   []*domain.Debt
	Summary domain.DebtSummary
}

// CreateDebt records a debt. Money lent out of a bucket is debited from it
// in the same transaction.
func (uc *DebtUseCase) CreateDebt(ctx context.Context, input CreateDebtInput) (*domain.Debt, error) {
	now := time.Now().UTC()

	debt := &domain.Debt{
		ID:          uc.idGen.Generate(),
		OwnerID:     input.OwnerID,
		PersonName:  strings.TrimSpace(input.PersonName),
		Amount:      input.Amount,
		Description: input.Description,
		Type:        input.Type,
		BucketID:    input.BucketID,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := debt.Validate(); err != nil {
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

	if debt.BucketID != nil {
		if _, err := uc.bucketRepo.GetByIDTx(txCtx, tx, input.OwnerID, *debt.BucketID); err != nil {
			return nil, err
		}
	}

	if err := uc.debtRepo.Create(txCtx, tx, debt); err != nil {
		return nil, err
	}

	if debt.MovesLedger() {
		memo := fmt.Sprintf("Lent to %s", debt.PersonName)
		if debt.Description != "" {
			memo += ": " + debt.Description
		}
		if err := uc.writeEntry(txCtx, tx, debt, domain.DirectionDebit, memo, now); err != nil {
			return nil, err
		}
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeDebt, debt.ID, domain.EventTypeDebtCreated,
		domain.DebtPayload(debt), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DebtsCreated.Inc()
	}

	return debt, nil
}

// SettleDebt marks a debt as paid. Repaid money lent out of a bucket is
// credited back to it in the same transaction.
func (uc *DebtUseCase) SettleDebt(ctx context.Context, ownerID, debtID string) (*domain.Debt, error) {
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

	debt, err := uc.debtRepo.GetByIDTx(txCtx, tx, ownerID, debtID)
	if err != nil {
		return nil, err
	}

	if debt.IsPaid {
		return nil, domain.ErrDebtAlreadySettled
	}

	now := time.Now().UTC()

	if err := uc.debtRepo.MarkPaid(txCtx, tx, ownerID, debtID, now); err != nil {
		return nil, err
	}

	debt.IsPaid = true
	debt.PaidAt = &now
	debt.UpdatedAt = now

	if debt.MovesLedger() {
		memo := fmt.Sprintf("Paid back by %s", debt.PersonName)
		if err := uc.writeEntry(txCtx, tx, debt, domain.DirectionCredit, memo, now); err != nil {
			return nil, err
		}
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeDebt, debt.ID, domain.EventTypeDebtSettled,
		domain.DebtPayload(debt), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DebtsSettled.Inc()
	}

	return debt, nil
}

// DeleteDebt removes a debt record. Ledger entries already written for it stay.
func (uc *DebtUseCase) DeleteDebt(ctx context.Context, ownerID, debtID string) error {
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

	debt, err := uc.debtRepo.GetByIDTx(txCtx, tx, ownerID, debtID)
	if err != nil {
		return err
	}

	if err := uc.debtRepo.Delete(txCtx, tx, ownerID, debtID); err != nil {
		return err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeDebt, debt.ID, domain.EventTypeDebtDeleted,
		domain.DebtPayload(debt), time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// ListDebts returns debts, unpaid first, with totals over the unpaid ones.
func (uc *DebtUseCase) ListDebts(ctx context.Context, filter domain.DebtFilter) (*DebtList, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, domain.ErrInvalidDebtType
	}

	debts, err := uc.debtRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &DebtList{
		Debts:   debts,
		Summary: domain.SummarizeDebts(debts),
	}, nil
}

func (uc *DebtUseCase) writeEntry(
	ctx context.Context,
	tx Transaction,
	debt *domain.Debt,
	direction domain.Direction,
	memo string,
	now time.Time,
) error {
	bucketID := *debt.BucketID

	return uc.entryRepo.Create(ctx, tx, &domain.LedgerEntry{
		ID:         uc.idGen.Generate(),
		OwnerID:    debt.OwnerID,
		BucketID:   &bucketID,
		Kind:       domain.EntryKindDebt,
		Direction:  direction,
		Amount:     debt.Amount,
		Memo:       memo,
		GroupKey:   debt.GroupKey(),
		OccurredAt: now,
		CreatedAt:  now,
	})
}
