package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/usecase"
)

// LedgerEntryRepository implements usecase.LedgerEntryRepository.
// Entries are inserted and deleted, never updated.
type LedgerEntryRepository struct {
	queries *generated.Queries
}

// NewLedgerEntryRepository creates a new LedgerEntryRepository.
func NewLedgerEntryRepository(db generated.DBTX) *LedgerEntryRepository {
	return &LedgerEntryRepository{queries: generated.New(db)}
}

// Create inserts an entry.
func (r *LedgerEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if err := entry.ValidateAmount(); err != nil {
		return err
	}

	err := txQueries(tx).CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:               entry.ID,
		OwnerID:          entry.OwnerID,
		BucketID:         stringPtrToPgText(entry.BucketID),
		Kind:             string(entry.Kind),
		Direction:        string(entry.Direction),
		AmountMinorUnits: int64(entry.Amount),
		Memo:             entry.Memo,
		GroupKey:         entry.GroupKey,
		OccurredAt:       timeToPgTimestamptz(entry.OccurredAt),
		CreatedAt:        timeToPgTimestamptz(entry.CreatedAt),
		LabelID:          stringPtrToPgText(entry.LabelID),
	})

	return mapError(err)
}

// GetByIDTx retrieves one of the owner's entries inside tx.
func (r *LedgerEntryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.LedgerEntry, error) {
	row, err := txQueries(tx).GetLedgerEntry(ctx, generated.GetLedgerEntryParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, mapError(err)
	}

	return rowToEntry(row), nil
}

// GetGroupTx returns every entry sharing groupKey.
func (r *LedgerEntryRepository) GetGroupTx(ctx context.Context, tx usecase.Transaction, ownerID, groupKey string) ([]*domain.LedgerEntry, error) {
	rows, err := txQueries(tx).GetLedgerEntryGroup(ctx, generated.GetLedgerEntryGroupParams{
		OwnerID:  ownerID,
		GroupKey: groupKey,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToEntries(rows), nil
}

// Delete removes a single entry.
func (r *LedgerEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	n, err := txQueries(tx).DeleteLedgerEntry(ctx, generated.DeleteLedgerEntryParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// DeleteGroup removes every entry sharing groupKey and reports how many went.
func (r *LedgerEntryRepository) DeleteGroup(ctx context.Context, tx usecase.Transaction, ownerID, groupKey string) (int64, error) {
	n, err := txQueries(tx).DeleteLedgerEntryGroup(ctx, generated.DeleteLedgerEntryGroupParams{
		OwnerID:  ownerID,
		GroupKey: groupKey,
	})

	return n, mapError(err)
}

// BalanceOf sums credits minus debits for a bucket.
func (r *LedgerEntryRepository) BalanceOf(ctx context.Context, ownerID, bucketID string) (domain.Cents, error) {
	balance, err := r.queries.BucketBalance(ctx, generated.BucketBalanceParams{
		OwnerID:  ownerID,
		BucketID: stringToPgText(bucketID),
	})
	if err != nil {
		return 0, err
	}

	return domain.Cents(balance), nil
}

// BalancesByOwner returns the balance of every bucket with at least one entry.
func (r *LedgerEntryRepository) BalancesByOwner(ctx context.Context, ownerID string) (map[string]domain.Cents, error) {
	rows, err := r.queries.BucketBalancesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]domain.Cents, len(rows))
	for _, row := range rows {
		balances[row.BucketID] = domain.Cents(row.Balance)
	}

	return balances, nil
}

// List returns entries matching filter, newest first.
func (r *LedgerEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	params := generated.ListLedgerEntriesParams{
		OwnerID:      filter.OwnerID,
		BucketID:     stringPtrToPgText(filter.BucketID),
		LabelID:      stringPtrToPgText(filter.LabelID),
		OccurredFrom: timePtrToPgTimestamptz(filter.From),
		OccurredTo:   timePtrToPgTimestamptz(filter.To),
		RowLimit:     int32(filter.Limit),
		RowOffset:    int32(filter.Offset),
	}
	if filter.Direction != nil {
		params.Direction = stringToPgText(string(*filter.Direction))
	}
	if filter.Kind != nil {
		params.Kind = stringToPgText(string(*filter.Kind))
	}
	if filter.Search != "" {
		params.Search = stringToPgText(filter.Search)
	}

	rows, err := r.queries.ListLedgerEntries(ctx, params)
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListIncomeParents returns income parents, newest first.
func (r *LedgerEntryRepository) ListIncomeParents(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListIncomeParents(ctx, generated.ListIncomeParentsParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListByGroups returns the bucket entries of the given groups.
func (r *LedgerEntryRepository) ListByGroups(ctx context.Context, ownerID string, groupKeys []string) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByGroups(ctx, generated.ListLedgerEntriesByGroupsParams{
		OwnerID:   ownerID,
		GroupKeys: groupKeys,
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// IncomeGroupTotals returns, per income group, the parent amount and the
// signed sum of its allocations.
func (r *LedgerEntryRepository) IncomeGroupTotals(ctx context.Context, ownerID string) ([]domain.GroupTotal, error) {
	rows, err := r.queries.IncomeGroupTotals(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totals := make([]domain.GroupTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.GroupTotal{
			GroupKey:     row.GroupKey,
			ParentAmount: domain.Cents(row.ParentAmount),
			ChildrenSum:  domain.Cents(row.ChildrenSum),
			Children:     int(row.Children),
		})
	}

	return totals, nil
}

func rowsToEntries(rows []generated.LedgerEntry) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		BucketID:   pgTextToStringPtr(row.BucketID),
		LabelID:    pgTextToStringPtr(row.LabelID),
		Kind:       domain.EntryKind(row.Kind),
		Direction:  domain.Direction(row.Direction),
		Amount:     domain.Cents(row.AmountMinorUnits),
		Memo:       row.Memo,
		GroupKey:   row.GroupKey,
		OccurredAt: row.OccurredAt.Time,
		CreatedAt:  row.CreatedAt.Time,
	}
}
