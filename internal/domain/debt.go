package domain

import (
	"strings"
	"time"
)

// DebtType says which way the money flows.
type DebtType string

const (
	// DebtOwedToMe is money lent out; with a bucket it debits that bucket.
	DebtOwedToMe DebtType = "owed_to_me"
	// DebtOwedByMe is money borrowed; it never touches the ledger.
	DebtOwedByMe DebtType = "owed_by_me"
)

// Valid reports whether t is a known debt type.
func (t DebtType) Valid() bool {
	return t == DebtOwedToMe || t == DebtOwedByMe
}

// Debt is money owed between the owner and another person.
type Debt struct {
	ID          string
	OwnerID     string
	PersonName  string
	Amount      Cents
	Description string
	Type        DebtType
	BucketID    *string
	DueDate     *time.Time
	IsPaid      bool
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks a new debt.
func (d *Debt) Validate() error {
	if strings.TrimSpace(d.PersonName) == "" {
		return ErrInvalidPersonName
	}
	if !d.Type.Valid() {
		return ErrInvalidDebtType
	}
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}
	return ValidateMemo(d.Description)
}

// MovesLedger reports whether the debt's state changes write ledger entries.
func (d *Debt) MovesLedger() bool {
	return d.Type == DebtOwedToMe && d.BucketID != nil
}

// GroupKey links the ledger entries written for this debt.
func (d *Debt) GroupKey() string {
	return "debt:" + d.ID
}

// DebtSummary totals the unpaid debts of an owner.
type DebtSummary struct {
	OwedToMe Cents
	OwedByMe Cents
	Net      Cents
}

// SummarizeDebts totals unpaid debts by direction.
func SummarizeDebts(debts []*Debt) DebtSummary {
	var s DebtSummary
	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		switch d.Type {
		case DebtOwedToMe:
			s.OwedToMe += d.Amount
		case DebtOwedByMe:
			s.OwedByMe += d.Amount
		}
	}
	s.Net = s.OwedToMe - s.OwedByMe
	return s
}

// DebtFilter narrows a debt listing. Nil fields do not filter.
type DebtFilter struct {
	OwnerID string
	Type    *DebtType
	IsPaid  *bool
}
