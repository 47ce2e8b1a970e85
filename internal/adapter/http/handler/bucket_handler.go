package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// BucketService defines the behavior needed by BucketHandler.
type BucketService interface {
	CreateBucket(ctx context.Context, input usecase.CreateBucketInput) (*domain.Bucket, error)
	UpdateBucket(ctx context.Context, input usecase.UpdateBucketInput) (*domain.Bucket, error)
	DeleteBucket(ctx context.Context, ownerID, bucketID string) (*usecase.DeleteBucketResult, error)
	ListBuckets(ctx context.Context, ownerID string) (*usecase.BucketList, error)
}

// BalanceService defines the balance lookup needed by BucketHandler.
type BalanceService interface {
	BalanceOf(ctx context.Context, ownerID, bucketID string) (*domain.BucketBalance, error)
}

// BucketHandler handles bucket registry requests.
type BucketHandler struct {
	bucketUC  BucketService
	balanceUC BalanceService
	retrier   Retrier
}

// NewBucketHandler creates a new BucketHandler.
func NewBucketHandler(bucketUC BucketService, balanceUC BalanceService, retrier Retrier) *BucketHandler {
	return &BucketHandler{bucketUC: bucketUC, balanceUC: balanceUC, retrier: retrier}
}

// Create adds a bucket, taking share from a donor when needed.
func (h *BucketHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateBucketRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var bucket *domain.Bucket
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		bucket, err = h.bucketUC.CreateBucket(r.Context(), req.ToUseCaseInput(owner))
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to create bucket", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BucketFromDomain(bucket))
}

// List returns the owner's buckets with balances, fallback first.
func (h *BucketHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	list, err := h.bucketUC.ListBuckets(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, "failed to list buckets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BucketListFromUseCase(list))
}

// Update renames a bucket or changes its share or fallback flag.
func (h *BucketHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateBucketRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var bucket *domain.Bucket
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		bucket, err = h.bucketUC.UpdateBucket(r.Context(), req.ToUseCaseInput(owner, chi.URLParam(r, "id")))
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to update bucket", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BucketFromDomain(bucket))
}

// Delete removes a bucket without ledger entries.
func (h *BucketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var result *usecase.DeleteBucketResult
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		result, err = h.bucketUC.DeleteBucket(r.Context(), owner, chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to delete bucket", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteBucketResponse{RemainingTotalShare: result.RemainingTotalShare})
}

// Balance returns one bucket's derived balance.
func (h *BucketHandler) Balance(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	balance, err := h.balanceUC.BalanceOf(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BucketBalanceFromDomain(balance))
}
