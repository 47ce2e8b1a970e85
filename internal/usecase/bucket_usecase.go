package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// BucketUseCase manages an owner's buckets and keeps their shares within 100%.
type BucketUseCase struct {
	txManager  TransactionManager
	bucketRepo BucketRepository
	entryRepo  LedgerEntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewBucketUseCase creates a new BucketUseCase.
func NewBucketUseCase(
	txManager TransactionManager,
	bucketRepo BucketRepository,
	entryRepo LedgerEntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BucketUseCase {
	return &BucketUseCase{
		txManager:  txManager,
		bucketRepo: bucketRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// CreateBucketInput represents input for creating a bucket.
type CreateBucketInput struct {
	OwnerID       string
	Name          string
	SharePercent  int
	IsFallback    bool
	DonorBucketID *string
}

// UpdateBucketInput represents input for updating a bucket. Nil fields are left unchanged.
type UpdateBucketInput struct {
	OwnerID      string
	BucketID     string
	Name         *string
	SharePercent *int
	IsFallback   *bool
}

// DeleteBucketResult is returned after a bucket is removed.
type DeleteBucketResult struct {
	RemainingTotalShare int
}

// BucketList is an owner's buckets with derived balances.
type BucketList struct {
	Buckets           []*domain.BucketBalance
	TotalSharePercent int
	TotalBalance      domain.Cents
}

// CreateBucket adds a bucket. When the requested share does not fit in the
// owner's remaining share, the shortfall is taken from the explicit donor or,
// failing that, from the fallback bucket, in the same transaction.
func (uc *BucketUseCase) CreateBucket(ctx context.Context, input CreateBucketInput) (*domain.Bucket, error) {
	if err := domain.ValidateBucketName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateShare(input.SharePercent); err != nil {
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

	buckets, err := uc.bucketRepo.ListByOwnerTx(txCtx, tx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.IsFallback && domain.FindFallback(buckets) != nil {
		return nil, domain.ErrConflictFallback
	}

	now := time.Now().UTC()

	remaining := domain.MaxSharePercent - domain.TotalShare(buckets, "")
	if input.SharePercent > remaining {
		shortfall := input.SharePercent - remaining

		donorID, err := domain.SelectDonor(buckets, shortfall, input.DonorBucketID)
		if err != nil {
			return nil, err
		}

		donor := domain.FindBucket(buckets, donorID)
		donor.SharePercent -= shortfall
		donor.UpdatedAt = now

		if err := uc.bucketRepo.Update(txCtx, tx, donor); err != nil {
			return nil, err
		}

		if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
			domain.AggregateTypeBucket, donor.ID, domain.EventTypeBucketUpdated,
			domain.BucketPayload(donor), now); err != nil {
			return nil, err
		}

		if uc.metrics != nil {
			kind := "explicit"
			if input.DonorBucketID == nil {
				kind = "fallback"
			}
			uc.metrics.ShareReallocations.WithLabelValues(kind).Inc()
		}
	}

	bucket := &domain.Bucket{
		ID:           uc.idGen.Generate(),
		OwnerID:      input.OwnerID,
		Name:         strings.TrimSpace(input.Name),
		SharePercent: input.SharePercent,
		IsFallback:   input.IsFallback,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.bucketRepo.Create(txCtx, tx, bucket); err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeBucket, bucket.ID, domain.EventTypeBucketCreated,
		domain.BucketPayload(bucket), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BucketsCreated.Inc()
	}

	return bucket, nil
}

// UpdateBucket renames a bucket, changes its share or toggles its fallback
// flag. A share increase that does not fit fails; it never takes share from
// another bucket.
func (uc *BucketUseCase) UpdateBucket(ctx context.Context, input UpdateBucketInput) (*domain.Bucket, error) {
	if input.Name != nil {
		if err := domain.ValidateBucketName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.SharePercent != nil {
		if err := domain.ValidateShare(*input.SharePercent); err != nil {
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

	buckets, err := uc.bucketRepo.ListByOwnerTx(txCtx, tx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	bucket := domain.FindBucket(buckets, input.BucketID)
	if bucket == nil {
		return nil, domain.ErrBucketNotFound
	}

	if input.IsFallback != nil && *input.IsFallback && !bucket.IsFallback {
		if existing := domain.FindFallback(buckets); existing != nil && existing.ID != bucket.ID {
			return nil, domain.ErrConflictFallback
		}
	}

	if input.SharePercent != nil && *input.SharePercent != bucket.SharePercent {
		newTotal := domain.TotalShare(buckets, bucket.ID) + *input.SharePercent
		if newTotal > domain.MaxSharePercent {
			return nil, fmt.Errorf("%w: total would be %d%%", domain.ErrShareExceeded, newTotal)
		}
		bucket.SharePercent = *input.SharePercent
	}

	if input.Name != nil {
		bucket.Name = strings.TrimSpace(*input.Name)
	}
	if input.IsFallback != nil {
		bucket.IsFallback = *input.IsFallback
	}

	now := time.Now().UTC()
	bucket.UpdatedAt = now

	if err := uc.bucketRepo.Update(txCtx, tx, bucket); err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, input.OwnerID,
		domain.AggregateTypeBucket, bucket.ID, domain.EventTypeBucketUpdated,
		domain.BucketPayload(bucket), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return bucket, nil
}

// DeleteBucket removes a bucket that no ledger entry references.
// Its share is released, not redistributed.
func (uc *BucketUseCase) DeleteBucket(ctx context.Context, ownerID, bucketID string) (*DeleteBucketResult, error) {
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

	bucket, err := uc.bucketRepo.GetByIDTx(txCtx, tx, ownerID, bucketID)
	if err != nil {
		return nil, err
	}

	refs, err := uc.bucketRepo.CountEntries(txCtx, tx, ownerID, bucketID)
	if err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, fmt.Errorf("%w: %d entries", domain.ErrHasReferences, refs)
	}

	if err := uc.bucketRepo.Delete(txCtx, tx, ownerID, bucketID); err != nil {
		return nil, err
	}

	remaining, err := uc.bucketRepo.ListByOwnerTx(txCtx, tx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := emit(txCtx, tx, uc.outboxRepo, uc.idGen, ownerID,
		domain.AggregateTypeBucket, bucket.ID, domain.EventTypeBucketDeleted,
		domain.BucketPayload(bucket), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BucketsDeleted.Inc()
	}

	return &DeleteBucketResult{RemainingTotalShare: domain.TotalShare(remaining, "")}, nil
}

// ListBuckets returns the owner's buckets, fallback first, each with its balance.
func (uc *BucketUseCase) ListBuckets(ctx context.Context, ownerID string) (*BucketList, error) {
	buckets, err := uc.bucketRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	balances, err := uc.entryRepo.BalancesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	list := &BucketList{
		Buckets: make([]*domain.BucketBalance, 0, len(buckets)),
	}

	for _, b := range buckets {
		balance := balances[b.ID]
		list.Buckets = append(list.Buckets, &domain.BucketBalance{Bucket: b, Balance: balance})
		list.TotalSharePercent += b.SharePercent
		list.TotalBalance += balance
	}

	return list, nil
}
