package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// DebtService defines the behavior needed by DebtHandler.
type DebtService interface {
	CreateDebt(ctx context.Context, input usecase.CreateDebtInput) (*domain.Debt, error)
	SettleDebt(ctx context.Context, ownerID, debtID string) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, ownerID, debtID string) error
	ListDebts(ctx context.Context, filter domain.DebtFilter) (*usecase.DebtList, error)
}

// DebtHandler handles debt requests.
type DebtHandler struct {
	debtUC  DebtService
	retrier Retrier
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtUC DebtService, retrier Retrier) *DebtHandler {
	return &DebtHandler{debtUC: debtUC, retrier: retrier}
}

// Create records a debt.
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(owner)
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	var debt *domain.Debt
	err = retry(r.Context(), h.retrier, func() error {
		var err error
		debt, err = h.debtUC.CreateDebt(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to create debt", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DebtFromDomain(debt))
}

// List returns debts, unpaid first, with totals.
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	filter, err := dto.DebtFilterFromQuery(owner, r.URL.Query().Get)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}

	list, err := h.debtUC.ListDebts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list debts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtListFromUseCase(list))
}

// Settle marks a debt as paid.
func (h *DebtHandler) Settle(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var debt *domain.Debt
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		debt, err = h.debtUC.SettleDebt(r.Context(), owner, chi.URLParam(r, "id"))
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to settle debt", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtFromDomain(debt))
}

// Delete removes a debt. Ledger entries it wrote are kept.
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	err := retry(r.Context(), h.retrier, func() error {
		return h.debtUC.DeleteDebt(r.Context(), owner, chi.URLParam(r, "id"))
	})
	if err != nil {
		writeDomainError(w, r, "failed to delete debt", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
