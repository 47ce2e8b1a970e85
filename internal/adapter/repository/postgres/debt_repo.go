package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/usecase"
)

// DebtRepository implements usecase.DebtRepository.
type DebtRepository struct {
	queries *generated.Queries
}

// NewDebtRepository creates a new DebtRepository.
func NewDebtRepository(db generated.DBTX) *DebtRepository {
	return &DebtRepository{queries: generated.New(db)}
}

// Create inserts a debt.
func (r *DebtRepository) Create(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	err := txQueries(tx).CreateDebt(ctx, generated.CreateDebtParams{
		ID:               debt.ID,
		OwnerID:          debt.OwnerID,
		PersonName:       debt.PersonName,
		AmountMinorUnits: int64(debt.Amount),
		Description:      debt.Description,
		Type:             string(debt.Type),
		BucketID:         stringPtrToPgText(debt.BucketID),
		DueDate:          timePtrToPgTimestamptz(debt.DueDate),
		IsPaid:           debt.IsPaid,
		PaidAt:           timePtrToPgTimestamptz(debt.PaidAt),
		CreatedAt:        timeToPgTimestamptz(debt.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(debt.UpdatedAt),
	})

	return mapError(err)
}

// GetByIDTx retrieves one of the owner's debts inside tx.
func (r *DebtRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Debt, error) {
	row, err := txQueries(tx).GetDebt(ctx, generated.GetDebtParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}

		return nil, mapError(err)
	}

	return rowToDebt(row), nil
}

// MarkPaid flags an unpaid debt as paid.
func (r *DebtRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, ownerID, id string, paidAt time.Time) error {
	n, err := txQueries(tx).MarkDebtPaid(ctx, generated.MarkDebtPaidParams{
		OwnerID: ownerID,
		ID:      id,
		PaidAt:  timeToPgTimestamptz(paidAt),
	})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrDebtNotFound
	}

	return nil
}

// Delete removes a debt.
func (r *DebtRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	n, err := txQueries(tx).DeleteDebt(ctx, generated.DeleteDebtParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrDebtNotFound
	}

	return nil
}

// List returns the owner's debts, unpaid first, newest first within each group.
func (r *DebtRepository) List(ctx context.Context, filter domain.DebtFilter) ([]*domain.Debt, error) {
	params := generated.ListDebtsParams{OwnerID: filter.OwnerID}
	if filter.Type != nil {
		params.Type = stringToPgText(string(*filter.Type))
	}
	if filter.IsPaid != nil {
		params.IsPaid = pgtype.Bool{Bool: *filter.IsPaid, Valid: true}
	}

	rows, err := r.queries.ListDebts(ctx, params)
	if err != nil {
		return nil, err
	}

	debts := make([]*domain.Debt, 0, len(rows))
	for _, row := range rows {
		debts = append(debts, rowToDebt(row))
	}

	return debts, nil
}

func rowToDebt(row generated.Debt) *domain.Debt {
	return &domain.Debt{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		PersonName:  row.PersonName,
		Amount:      domain.Cents(row.AmountMinorUnits),
		Description: row.Description,
		Type:        domain.DebtType(row.Type),
		BucketID:    pgTextToStringPtr(row.BucketID),
		DueDate:     pgTimestamptzToTimePtr(row.DueDate),
		IsPaid:      row.IsPaid,
		PaidAt:      pgTimestamptzToTimePtr(row.PaidAt),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
