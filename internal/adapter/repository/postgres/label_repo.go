package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/usecase"
)

// LabelRepository implements usecase.LabelRepository.
type LabelRepository struct {
	queries *generated.Queries
}

// NewLabelRepository creates a new LabelRepository.
func NewLabelRepository(db generated.DBTX) *LabelRepository {
	return &LabelRepository{queries: generated.New(db)}
}

// Create inserts a label. A duplicate name maps to domain.ErrLabelExists.
func (r *LabelRepository) Create(ctx context.Context, tx usecase.Transaction, label *domain.Label) error {
	err := txQueries(tx).CreateLabel(ctx, generated.CreateLabelParams{
		ID:        label.ID,
		OwnerID:   label.OwnerID,
		Name:      label.Name,
		CreatedAt: timeToPgTimestamptz(label.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(label.UpdatedAt),
	})

	return mapError(err)
}

// Update renames a label.
func (r *LabelRepository) Update(ctx context.Context, tx usecase.Transaction, label *domain.Label) error {
	n, err := txQueries(tx).UpdateLabel(ctx, generated.UpdateLabelParams{
		OwnerID:   label.OwnerID,
		ID:        label.ID,
		Name:      label.Name,
		UpdatedAt: timeToPgTimestamptz(label.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrLabelNotFound
	}

	return nil
}

// Delete removes a label.
func (r *LabelRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	n, err := txQueries(tx).DeleteLabel(ctx, generated.DeleteLabelParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrLabelNotFound
	}

	return nil
}

// GetByIDTx retrieves one of the owner's labels inside tx.
func (r *LabelRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Label, error) {
	row, err := txQueries(tx).GetLabel(ctx, generated.GetLabelParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}

		return nil, mapError(err)
	}

	return rowToLabel(row), nil
}

// GetByNameTx finds a label by its exact name inside tx.
func (r *LabelRepository) GetByNameTx(ctx context.Context, tx usecase.Transaction, ownerID, name string) (*domain.Label, error) {
	row, err := txQueries(tx).GetLabelByName(ctx, generated.GetLabelByNameParams{OwnerID: ownerID, Name: name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}

		return nil, mapError(err)
	}

	return rowToLabel(row), nil
}

// ListByOwner returns the owner's labels ordered by name.
func (r *LabelRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Label, error) {
	rows, err := r.queries.ListLabelsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	labels := make([]*domain.Label, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, rowToLabel(row))
	}

	return labels, nil
}

// CountEntries counts the ledger entries tagged with a label.
func (r *LabelRepository) CountEntries(ctx context.Context, tx usecase.Transaction, ownerID, labelID string) (int64, error) {
	n, err := txQueries(tx).CountLabelEntries(ctx, generated.CountLabelEntriesParams{
		OwnerID: ownerID,
		LabelID: stringToPgText(labelID),
	})

	return n, mapError(err)
}

func rowToLabel(row generated.Label) *domain.Label {
	return &domain.Label{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
