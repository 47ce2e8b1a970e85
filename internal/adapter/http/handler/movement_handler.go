package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	RecordDirectMovement(ctx context.Context, input usecase.DirectMovementInput) (*domain.LedgerEntry, error)
	UpdateDirectMovement(ctx context.Context, input usecase.UpdateDirectMovementInput) (*domain.LedgerEntry, error)
	DeleteDirectMovement(ctx context.Context, ownerID, entryID string) error
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
}

// MovementHandler handles direct movements and the entry listing.
type MovementHandler struct {
	movementUC MovementService
	retrier    Retrier
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService, retrier Retrier) *MovementHandler {
	return &MovementHandler{movementUC: movementUC, retrier: retrier}
}

// Record writes a single expense or credit on one bucket.
func (h *MovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.DirectMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(owner)
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	var entry *domain.LedgerEntry
	err = retry(r.Context(), h.retrier, func() error {
		var err error
		entry, err = h.movementUC.RecordDirectMovement(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to record movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Update replaces a direct movement.
func (h *MovementHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(owner, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "invalid amount", err)
		return
	}

	var entry *domain.LedgerEntry
	err = retry(r.Context(), h.retrier, func() error {
		var err error
		entry, err = h.movementUC.UpdateDirectMovement(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to update movement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes a direct movement.
func (h *MovementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	err := retry(r.Context(), h.retrier, func() error {
		return h.movementUC.DeleteDirectMovement(r.Context(), owner, chi.URLParam(r, "id"))
	})
	if err != nil {
		writeDomainError(w, r, "failed to delete movement", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEntries returns the owner's ledger entries matching the query filter.
func (h *MovementHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	filter, err := dto.EntryFilterFromQuery(owner, r.URL.Query().Get)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}
	filter.Limit = parseIntQuery(r, "limit", domain.DefaultPageSize)
	filter.Offset = parseIntQuery(r, "offset", 0)

	entries, err := h.movementUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, "failed to list entries", err)
		return
	}

	limit, offset := domain.ClampPagination(filter.Limit, filter.Offset)
	writeJSON(w, http.StatusOK, dto.EntryListResponse{
		Entries: dto.EntriesFromDomain(entries),
		Limit:   limit,
		Offset:  offset,
	})
}
