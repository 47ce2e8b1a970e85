package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// IncomeService defines the behavior needed by IncomeHandler.
type IncomeService interface {
	RecordIncome(ctx context.Context, input usecase.RecordIncomeInput) (*domain.IncomeAllocation, error)
	UpdateIncome(ctx context.Context, input usecase.UpdateIncomeInput) (*domain.IncomeAllocation, error)
	DeleteIncome(ctx context.Context, ownerID, groupKey string) error
	ListIncome(ctx context.Context, ownerID string, limit, offset int) ([]*domain.IncomeAllocation, error)
}

// IncomeHandler handles split income requests.
type IncomeHandler struct {
	incomeUC IncomeService
	retrier  Retrier
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeUC IncomeService, retrier Retrier) *IncomeHandler {
	return &IncomeHandler{incomeUC: incomeUC, retrier: retrier}
}

// Record splits an income across the owner's buckets.
func (h *IncomeHandler) Record(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.RecordIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(owner)
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	var income *domain.IncomeAllocation
	err = retry(r.Context(), h.retrier, func() error {
		var err error
		income, err = h.incomeUC.RecordIncome(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to record income", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IncomeFromDomain(income))
}

// List returns incomes with their allocations, newest first.
func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	limit, offset := domain.ClampPagination(
		parseIntQuery(r, "limit", domain.DefaultPageSize),
		parseIntQuery(r, "offset", 0),
	)

	incomes, err := h.incomeUC.ListIncome(r.Context(), owner, limit, offset)
	if err != nil {
		writeDomainError(w, r, "failed to list income", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeListResponse{
		Incomes: dto.IncomesFromDomain(incomes),
		Limit:   limit,
		Offset:  offset,
	})
}

// Update re-splits an income with the current buckets.
func (h *IncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(owner, chi.URLParam(r, "groupKey"))
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	var income *domain.IncomeAllocation
	err = retry(r.Context(), h.retrier, func() error {
		var err error
		income, err = h.incomeUC.UpdateIncome(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to update income", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeFromDomain(income))
}

// Delete removes an income and all of its allocations.
func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	err := retry(r.Context(), h.retrier, func() error {
		return h.incomeUC.DeleteIncome(r.Context(), owner, chi.URLParam(r, "groupKey"))
	})
	if err != nil {
		writeDomainError(w, r, "failed to delete income", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
