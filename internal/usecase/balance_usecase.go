package usecase

import (
	"context"

	"github.com/iho/shareledger/internal/domain"
)

// BalanceUseCase derives bucket balances from the ledger on every call.
type BalanceUseCase struct {
	bucketRepo BucketRepository
	entryRepo  LedgerEntryRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(bucketRepo BucketRepository, entryRepo LedgerEntryRepository) *BalanceUseCase {
	return &BalanceUseCase{
		bucketRepo: bucketRepo,
		entryRepo:  entryRepo,
	}
}

// BalanceOf returns credits minus debits for one of the owner's buckets.
func (uc *BalanceUseCase) BalanceOf(ctx context.Context, ownerID, bucketID string) (*domain.BucketBalance, error) {
	bucket, err := uc.bucketRepo.GetByID(ctx, ownerID, bucketID)
	if err != nil {
		return nil, err
	}

	balance, err := uc.entryRepo.BalanceOf(ctx, ownerID, bucketID)
	if err != nil {
		return nil, err
	}

	return &domain.BucketBalance{Bucket: bucket, Balance: balance}, nil
}
