package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// BucketResponse represents a bucket in API responses.
type BucketResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SharePercent int       `json:"share_percent"`
	IsFallback   bool      `json:"is_fallback"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BucketFromDomain converts a domain bucket to a response.
func BucketFromDomain(b *domain.Bucket) *BucketResponse {
	return &BucketResponse{
		ID:           b.ID,
		Name:         b.Name,
		SharePercent: b.SharePercent,
		IsFallback:   b.IsFallback,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// LabelResponse represents a label in API responses.
type LabelResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LabelFromDomain converts a label to a response.
func LabelFromDomain(l *domain.Label) *LabelResponse {
	return &LabelResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

// LabelListResponse lists an owner's labels.
type LabelListResponse struct {
	Labels []*LabelResponse `json:"labels"`
}

// LabelsFromDomain converts labels to a list response.
func LabelsFromDomain(labels []*domain.Label) *LabelListResponse {
	resp := &LabelListResponse{Labels: make([]*LabelResponse, len(labels))}
	for i, l := range labels {
		resp.Labels[i] = LabelFromDomain(l)
	}
	return resp
}

// BucketBalanceResponse is a bucket with its derived balance.
type BucketBalanceResponse struct {
	*BucketResponse
	Balance decimal.Decimal `json:"balance"`
	IsLow   bool            `json:"is_low"`
}

// BucketBalanceFromDomain converts a bucket balance to a response.
func BucketBalanceFromDomain(bb *domain.BucketBalance) *BucketBalanceResponse {
	return &BucketBalanceResponse{
		BucketResponse: BucketFromDomain(bb.Bucket),
		Balance:        bb.Balance.Decimal(),
		IsLow:          bb.IsLow(),
	}
}

// BucketListResponse lists an owner's buckets, fallback first.
type BucketListResponse struct {
	Buckets               []*BucketBalanceResponse `json:"buckets"`
	TotalSharePercent     int                      `json:"total_share_percent"`
	RemainingSharePercent int                      `json:"remaining_share_percent"`
	TotalBalance          decimal.Decimal          `json:"total_balance"`
}

// BucketListFromUseCase converts a bucket listing to a response.
func BucketListFromUseCase(l *usecase.BucketList) *BucketListResponse {
	resp := &BucketListResponse{
		Buckets:               make([]*BucketBalanceResponse, len(l.Buckets)),
		TotalSharePercent:     l.TotalSharePercent,
		RemainingSharePercent: domain.MaxSharePercent - l.TotalSharePercent,
		TotalBalance:          l.TotalBalance.Decimal(),
	}
	for i, bb := range l.Buckets {
		resp.Buckets[i] = BucketBalanceFromDomain(bb)
	}
	return resp
}

// DeleteBucketResponse reports the share left after a deletion.
type DeleteBucketResponse struct {
	RemainingTotalShare int `json:"remaining_total_share"`
}

// AllocationResponse is one bucket's part of a split income.
type AllocationResponse struct {
	BucketID   string          `json:"bucket_id"`
	BucketName string          `json:"bucket_name,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// IncomeResponse represents a split income in API responses.
type IncomeResponse struct {
	GroupKey    string                `json:"group_key"`
	ParentID    string                `json:"parent_id"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Memo        string                `json:"memo,omitempty"`
	OccurredAt  time.Time             `json:"occurred_at"`
	Allocations []*AllocationResponse `json:"allocations"`
}

// IncomeFromDomain converts a split income to a response.
func IncomeFromDomain(ia *domain.IncomeAllocation) *IncomeResponse {
	resp := &IncomeResponse{
		GroupKey:    ia.GroupKey,
		ParentID:    ia.ParentID,
		TotalAmount: ia.TotalAmount.Decimal(),
		Memo:        ia.Memo,
		OccurredAt:  ia.OccurredAt,
		Allocations: make([]*AllocationResponse, len(ia.Allocations)),
	}
	for i, a := range ia.Allocations {
		resp.Allocations[i] = &AllocationResponse{
			BucketID:   a.BucketID,
			BucketName: a.BucketName,
			Amount:     a.Amount.Decimal(),
		}
	}
	return resp
}

// IncomeListResponse is a page of incomes.
type IncomeListResponse struct {
	Incomes []*IncomeResponse `json:"incomes"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// IncomesFromDomain converts split incomes to responses.
func IncomesFromDomain(incomes []*domain.IncomeAllocation) []*IncomeResponse {
	result := make([]*IncomeResponse, len(incomes))
	for i, ia := range incomes {
		result[i] = IncomeFromDomain(ia)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID         string          `json:"id"`
	BucketID   *string         `json:"bucket_id"`
	LabelID    *string         `json:"label_id,omitempty"`
	Kind       string          `json:"kind"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
	GroupKey   string          `json:"group_key,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// EntryFromDomain converts a ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		BucketID:   e.BucketID,
		LabelID:    e.LabelID,
		Kind:       string(e.Kind),
		Direction:  string(e.Direction),
		Amount:     e.Amount.Decimal(),
		Memo:       e.Memo,
		GroupKey:   e.GroupKey,
		OccurredAt: e.OccurredAt,
		CreatedAt:  e.CreatedAt,
	}
}

// EntryListResponse is a page of ledger entries.
type EntryListResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// EntriesFromDomain converts ledger entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// DebtResponse represents a debt in API responses.
type DebtResponse struct {
	ID          string          `json:"id"`
	PersonName  string          `json:"person_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	BucketID    *string         `json:"bucket_id"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	IsPaid      bool            `json:"is_paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DebtFromDomain converts a debt to a response.
func DebtFromDomain(d *domain.Debt) *DebtResponse {
	return &DebtResponse{
		ID:          d.ID,
		PersonName:  d.PersonName,
		Amount:      d.Amount.Decimal(),
		Description: d.Description,
		Type:        string(d.Type),
		BucketID:    d.BucketID,
		DueDate:     d.DueDate,
		IsPaid:      d.IsPaid,
		PaidAt:      d.PaidAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// DebtSummaryResponse totals unpaid debts.
type DebtSummaryResponse struct {
	OwedToMe decimal.Decimal `json:"owed_to_me"`
	OwedByMe decimal.Decimal `json:"owed_by_me"`
	Net      decimal.Decimal `json:"net"`
}

// DebtListResponse is a debt listing with its summary.
type DebtListResponse struct {
	Debts   []*DebtResponse      `json:"debts"`
	Summary *DebtSummaryResponse `json:"summary"`
}

// DebtListFromUseCase converts a debt listing to a response.
func DebtListFromUseCase(l *usecase.DebtList) *DebtListResponse {
	resp := &DebtListResponse{
		Debts: make([]*DebtResponse, len(l.Debts)),
		Summary: &DebtSummaryResponse{
			OwedToMe: l.Summary.OwedToMe.Decimal(),
			OwedByMe: l.Summary.OwedByMe.Decimal(),
			Net:      l.Summary.Net.Decimal(),
		},
	}
	for i, d := range l.Debts {
		resp.Debts[i] = DebtFromDomain(d)
	}
	return resp
}

// DiscrepancyResponse is an income group whose allocations do not add up.
type DiscrepancyResponse struct {
	GroupKey     string          `json:"group_key"`
	ParentAmount decimal.Decimal `json:"parent_amount"`
	ChildrenSum  decimal.Decimal `json:"children_sum"`
	Children     int             `json:"children"`
}

// ReconciliationResponse represents a reconciliation report.
type ReconciliationResponse struct {
	OwnerID           string                 `json:"owner_id"`
	Consistent        bool                   `json:"consistent"`
	TotalSharePercent int                    `json:"total_share_percent"`
	ShareWithinLimit  bool                   `json:"share_within_limit"`
	GroupsChecked     int                    `json:"groups_checked"`
	Discrepancies     []*DiscrepancyResponse `json:"discrepancies"`
	CheckedAt         time.Time              `json:"checked_at"`
}

// ReconciliationFromUseCase converts a report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		OwnerID:           r.OwnerID,
		Consistent:        r.Consistent(),
		TotalSharePercent: r.TotalSharePercent,
		ShareWithinLimit:  r.ShareWithinLimit(),
		GroupsChecked:     r.GroupsChecked,
		Discrepancies:     make([]*DiscrepancyResponse, len(r.Discrepancies)),
		CheckedAt:         r.CheckedAt,
	}
	for i, g := range r.Discrepancies {
		resp.Discrepancies[i] = &DiscrepancyResponse{
			GroupKey:     g.GroupKey,
			ParentAmount: g.ParentAmount.Decimal(),
			ChildrenSum:  g.ChildrenSum.Decimal(),
			Children:     g.Children,
		}
	}
	return resp
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
