package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
)

// LabelService defines the behavior needed by LabelHandler.
type LabelService interface {
	CreateLabel(ctx context.Context, ownerID, name string) (*domain.Label, error)
	RenameLabel(ctx context.Context, ownerID, labelID, name string) (*domain.Label, error)
	DeleteLabel(ctx context.Context, ownerID, labelID string) error
	ListLabels(ctx context.Context, ownerID string) ([]*domain.Label, error)
}

// LabelHandler handles expense label requests.
type LabelHandler struct {
	labelUC LabelService
	retrier Retrier
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(labelUC LabelService, retrier Retrier) *LabelHandler {
	return &LabelHandler{labelUC: labelUC, retrier: retrier}
}

// Create adds a label.
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.LabelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var label *domain.Label
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		label, err = h.labelUC.CreateLabel(r.Context(), owner, req.Name)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to create label", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LabelFromDomain(label))
}

// List returns the owner's labels ordered by name.
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	labels, err := h.labelUC.ListLabels(r.Context(), owner)
	if err != nil {
		writeDomainError(w, r, "failed to list labels", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LabelsFromDomain(labels))
}

// Rename changes a label's name.
func (h *LabelHandler) Rename(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.LabelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var label *domain.Label
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		label, err = h.labelUC.RenameLabel(r.Context(), owner, chi.URLParam(r, "id"), req.Name)
		return err
	})
	if err != nil {
		writeDomainError(w, r, "failed to rename label", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LabelFromDomain(label))
}

// Delete removes a label that no entry uses.
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	err := retry(r.Context(), h.retrier, func() error {
		return h.labelUC.DeleteLabel(r.Context(), owner, chi.URLParam(r, "id"))
	})
	if err != nil {
		writeDomainError(w, r, "failed to delete label", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
