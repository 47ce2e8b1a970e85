package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// CreateBucketRequest represents a request to create a bucket.
type CreateBucketRequest struct {
	Name          string  `json:"name"`
	SharePercent  int     `json:"share_percent"`
	IsFallback    bool    `json:"is_fallback"`
	DonorBucketID *string `json:"donor_bucket_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBucketRequest) ToUseCaseInput(ownerID string) usecase.CreateBucketInput {
	return usecase.CreateBucketInput{
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(r.Name),
		SharePercent:  r.SharePercent,
		IsFallback:    r.IsFallback,
		DonorBucketID: r.DonorBucketID,
	}
}

// UpdateBucketRequest is a partial update; absent fields are kept.
type UpdateBucketRequest struct {
	Name         *string `json:"name,omitempty"`
	SharePercent *int    `json:"share_percent,omitempty"`
	IsFallback   *bool   `json:"is_fallback,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBucketRequest) ToUseCaseInput(ownerID, bucketID string) usecase.UpdateBucketInput {
	input := usecase.UpdateBucketInput{
		OwnerID:      ownerID,
		BucketID:     bucketID,
		SharePercent: r.SharePercent,
		IsFallback:   r.IsFallback,
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		input.Name = &name
	}
	return input
}

// LabelRequest carries a label name for create and rename.
type LabelRequest struct {
	Name string `json:"name"`
}

// RecordIncomeRequest represents a request to split an income.
type RecordIncomeRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordIncomeRequest) ToUseCaseInput(ownerID string) (usecase.RecordIncomeInput, error) {
	amount, err := domain.CentsFromDecimal(r.Amount)
	if err != nil {
		return usecase.RecordIncomeInput{}, err
	}

	return usecase.RecordIncomeInput{
		OwnerID:    ownerID,
		Amount:     amount,
		Memo:       r.Memo,
		OccurredAt: r.OccurredAt,
	}, nil
}

// UpdateIncomeRequest re-splits an income; absent fields are kept.
type UpdateIncomeRequest struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Memo       *string          `json:"memo,omitempty"`
	OccurredAt *time.Time       `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateIncomeRequest) ToUseCaseInput(ownerID, groupKey string) (usecase.UpdateIncomeInput, error) {
	input := usecase.UpdateIncomeInput{
		OwnerID:    ownerID,
		GroupKey:   groupKey,
		Memo:       r.Memo,
		OccurredAt: r.OccurredAt,
	}

	if r.Amount != nil {
		amount, err := domain.CentsFromDecimal(*r.Amount)
		if err != nil {
			return usecase.UpdateIncomeInput{}, err
		}
		input.Amount = &amount
	}

	return input, nil
}

// DirectMovementRequest represents a single expense or credit on a bucket.
type DirectMovementRequest struct {
	BucketID   string          `json:"bucket_id"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
	LabelID    *string         `json:"label_id,omitempty"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DirectMovementRequest) ToUseCaseInput(ownerID string) (usecase.DirectMovementInput, error) {
	amount, err := domain.CentsFromDecimal(r.Amount)
	if err != nil {
		return usecase.DirectMovementInput{}, err
	}

	return usecase.DirectMovementInput{
		OwnerID:    ownerID,
		BucketID:   r.BucketID,
		Direction:  domain.Direction(strings.ToLower(r.Direction)),
		Amount:     amount,
		Memo:       r.Memo,
		LabelID:    r.LabelID,
		OccurredAt: r.OccurredAt,
	}, nil
}

// UpdateMovementRequest edits a direct movement; absent fields are kept.
// An empty label_id removes the label.
type UpdateMovementRequest struct {
	BucketID   *string          `json:"bucket_id,omitempty"`
	Direction  *string          `json:"direction,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Memo       *string          `json:"memo,omitempty"`
	LabelID    *string          `json:"label_id,omitempty"`
	OccurredAt *time.Time       `json:"occurred_at,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateMovementRequest) ToUseCaseInput(ownerID, entryID string) (usecase.UpdateDirectMovementInput, error) {
	input := usecase.UpdateDirectMovementInput{
		OwnerID:    ownerID,
		EntryID:    entryID,
		BucketID:   r.BucketID,
		Memo:       r.Memo,
		LabelID:    r.LabelID,
		OccurredAt: r.OccurredAt,
	}

	if r.Direction != nil {
		d := domain.Direction(strings.ToLower(*r.Direction))
		input.Direction = &d
	}

	if r.Amount != nil {
		amount, err := domain.CentsFromDecimal(*r.Amount)
		if err != nil {
			return usecase.UpdateDirectMovementInput{}, err
		}
		input.Amount = &amount
	}

	return input, nil
}

// CreateDebtRequest represents a request to record a debt.
type CreateDebtRequest struct {
	PersonName  string          `json:"person_name"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	BucketID    *string         `json:"bucket_id,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDebtRequest) ToUseCaseInput(ownerID string) (usecase.CreateDebtInput, error) {
	amount, err := domain.CentsFromDecimal(r.Amount)
	if err != nil {
		return usecase.CreateDebtInput{}, err
	}

	return usecase.CreateDebtInput{
		OwnerID:     ownerID,
		PersonName:  strings.TrimSpace(r.PersonName),
		Amount:      amount,
		Description: r.Description,
		Type:        domain.DebtType(r.Type),
		BucketID:    r.BucketID,
		DueDate:     r.DueDate,
	}, nil
}

// EntryFilterFromQuery builds a ledger entry filter from query parameters:
// bucket_id, label_id, direction, kind, from, to (RFC 3339), q, limit, offset.
func EntryFilterFromQuery(ownerID string, get func(string) string) (domain.EntryFilter, error) {
	filter := domain.EntryFilter{
		OwnerID: ownerID,
		Search:  get("q"),
	}

	if v := get("bucket_id"); v != "" {
		filter.BucketID = &v
	}
	if v := get("label_id"); v != "" {
		filter.LabelID = &v
	}
	if v := get("direction"); v != "" {
		d := domain.Direction(v)
		filter.Direction = &d
	}
	if v := get("kind"); v != "" {
		k := domain.EntryKind(v)
		filter.Kind = &k
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		v := get(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.EntryFilter{}, fmt.Errorf("%w: %s must be RFC 3339", domain.ErrInvalidFilter, p.name)
		}
		*p.dst = &t
	}

	return filter, nil
}

// DebtFilterFromQuery builds a debt filter from the type and is_paid parameters.
func DebtFilterFromQuery(ownerID string, get func(string) string) (domain.DebtFilter, error) {
	filter := domain.DebtFilter{OwnerID: ownerID}

	if v := get("type"); v != "" {
		t := domain.DebtType(v)
		filter.Type = &t
	}

	switch v := get("is_paid"); v {
	case "":
	case "true":
		paid := true
		filter.IsPaid = &paid
	case "false":
		paid := false
		filter.IsPaid = &paid
	default:
		return domain.DebtFilter{}, fmt.Errorf("%w: is_paid must be true or false", domain.ErrInvalidFilter)
	}

	return filter, nil
}
