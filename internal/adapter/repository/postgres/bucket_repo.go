package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/usecase"
)

// BucketRepository implements usecase.BucketRepository.
type BucketRepository struct {
	queries *generated.Queries
}

// NewBucketRepository creates a new BucketRepository.
func NewBucketRepository(db generated.DBTX) *BucketRepository {
	return &BucketRepository{queries: generated.New(db)}
}

// LockOwner takes a transaction-scoped advisory lock keyed by the owner.
func (r *BucketRepository) LockOwner(ctx context.Context, tx usecase.Transaction, ownerID string) error {
	return mapError(txQueries(tx).LockOwner(ctx, ownerID))
}

// Create inserts a bucket.
func (r *BucketRepository) Create(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error {
	err := txQueries(tx).CreateBucket(ctx, generated.CreateBucketParams{
		ID:           bucket.ID,
		OwnerID:      bucket.OwnerID,
		Name:         bucket.Name,
		SharePercent: int32(bucket.SharePercent),
		IsFallback:   bucket.IsFallback,
		CreatedAt:    timeToPgTimestamptz(bucket.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(bucket.UpdatedAt),
	})

	return mapError(err)
}

// Update overwrites a bucket's name, share and fallback flag.
func (r *BucketRepository) Update(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error {
	n, err := txQueries(tx).UpdateBucket(ctx, generated.UpdateBucketParams{
		OwnerID:      bucket.OwnerID,
		ID:           bucket.ID,
		Name:         bucket.Name,
		SharePercent: int32(bucket.SharePercent),
		IsFallback:   bucket.IsFallback,
		UpdatedAt:    timeToPgTimestamptz(bucket.UpdatedAt),
	})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrBucketNotFound
	}

	return nil
}

// Delete removes a bucket.
func (r *BucketRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	n, err := txQueries(tx).DeleteBucket(ctx, generated.DeleteBucketParams{OwnerID: ownerID, ID: id})
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return domain.ErrBucketNotFound
	}

	return nil
}

// GetByIDTx retrieves one of the owner's buckets inside tx.
func (r *BucketRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Bucket, error) {
	return getBucket(ctx, txQueries(tx), ownerID, id)
}

// GetByID retrieves one of the owner's buckets.
func (r *BucketRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Bucket, error) {
	return getBucket(ctx, r.queries, ownerID, id)
}

// ListByOwnerTx returns the owner's buckets in creation order.
func (r *BucketRepository) ListByOwnerTx(ctx context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Bucket, error) {
	rows, err := txQueries(tx).ListBucketsByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToBuckets(rows), nil
}

// ListByOwner returns the owner's buckets, fallback first.
func (r *BucketRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bucket, error) {
	rows, err := r.queries.ListBucketsForDisplay(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return rowsToBuckets(rows), nil
}

// CountEntries counts the ledger entries that reference a bucket.
func (r *BucketRepository) CountEntries(ctx context.Context, tx usecase.Transaction, ownerID, bucketID string) (int64, error) {
	n, err := txQueries(tx).CountBucketEntries(ctx, generated.CountBucketEntriesParams{
		OwnerID:  ownerID,
		BucketID: stringToPgText(bucketID),
	})

	return n, mapError(err)
}

// ListOwners returns every owner with at least one bucket.
func (r *BucketRepository) ListOwners(ctx context.Context) ([]string, error) {
	return r.queries.ListOwners(ctx)
}

func getBucket(ctx context.Context, q *generated.Queries, ownerID, id string) (*domain.Bucket, error) {
	row, err := q.GetBucket(ctx, generated.GetBucketParams{OwnerID: ownerID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBucketNotFound
		}

		return nil, mapError(err)
	}

	return rowToBucket(row), nil
}

func rowsToBuckets(rows []generated.Bucket) []*domain.Bucket {
	buckets := make([]*domain.Bucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, rowToBucket(row))
	}
	return buckets
}

func rowToBucket(row generated.Bucket) *domain.Bucket {
	return &domain.Bucket{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Name:         row.Name,
		SharePercent: int(row.SharePercent),
		IsFallback:   row.IsFallback,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
