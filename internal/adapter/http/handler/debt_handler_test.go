package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/shareledger/internal/adapter/http/dto"
	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

func TestDebtHandler_Create(t *testing.T) {
	var captured usecase.CreateDebtInput
	h := NewDebtHandler(&debtServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateDebtInput) (*domain.Debt, error) {
			captured = input
			return &domain.Debt{ID: "d1", PersonName: input.PersonName, Amount: input.Amount, Type: input.Type}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, newOwnerRequest(http.MethodPost, "/debts",
		strings.NewReader(`{"person_name":" Ann ","amount":"25","type":"owed_to_me","bucket_id":"b1"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.PersonName != "Ann" || captured.Amount != 2500 || captured.Type != domain.DebtOwedToMe {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.BucketID == nil || *captured.BucketID != "b1" {
		t.Fatalf("expected bucket b1, got %v", captured.BucketID)
	}
}

func TestDebtHandler_List(t *testing.T) {
	var captured domain.DebtFilter
	h := NewDebtHandler(&debtServiceStub{
		listFn: func(ctx context.Context, filter domain.DebtFilter) (*usecase.DebtList, error) {
			captured = filter
			return &usecase.DebtList{
				Debts:   []*domain.Debt{{ID: "d1", Amount: 2500, Type: domain.DebtOwedToMe}},
				Summary: domain.DebtSummary{OwedToMe: 2500, Net: 2500},
			}, nil
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, newOwnerRequest(http.MethodGet, "/debts?is_paid=false", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.IsPaid == nil || *captured.IsPaid {
		t.Fatalf("expected unpaid filter, got %+v", captured)
	}

	var resp dto.DebtListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Debts) != 1 || resp.Summary.Net.String() != "25" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDebtHandler_List_InvalidFilter(t *testing.T) {
	h := NewDebtHandler(&debtServiceStub{}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, newOwnerRequest(http.MethodGet, "/debts?is_paid=maybe", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDebtHandler_Settle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"settled", nil, http.StatusOK},
		{"already settled", domain.ErrDebtAlreadySettled, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDebtHandler(&debtServiceStub{
				settleFn: func(ctx context.Context, ownerID, debtID string) (*domain.Debt, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					paidAt := time.Now().UTC()
					return &domain.Debt{ID: debtID, IsPaid: true, PaidAt: &paidAt}, nil
				},
			}, nil)

			rec := httptest.NewRecorder()
			h.Settle(rec, newOwnerRequest(http.MethodPost, "/debts/d1/settle", nil, "id", "d1"))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestDebtHandler_Delete(t *testing.T) {
	h := NewDebtHandler(&debtServiceStub{
		deleteFn: func(ctx context.Context, ownerID, debtID string) error { return nil },
	}, nil)

	rec := httptest.NewRecorder()
	h.Delete(rec, newOwnerRequest(http.MethodDelete, "/debts/d1", nil, "id", "d1"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
