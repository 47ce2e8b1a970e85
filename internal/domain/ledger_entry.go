package domain

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the sign of a ledger movement.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// EntryKind records why an entry was written.
type EntryKind string

const (
	// EntryKindIncome is the bucketless parent of a split income event.
	EntryKindIncome EntryKind = "income"
	// EntryKindAllocation is one bucket's share of a split income event.
	EntryKindAllocation EntryKind = "allocation"
	// EntryKindDirect is a plain expense or credit against one bucket.
	EntryKindDirect EntryKind = "direct"
	// EntryKindDebt is written together with a debt state change.
	EntryKindDebt EntryKind = "debt"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindIncome, EntryKindAllocation, EntryKindDirect, EntryKindDebt:
		return true
	}
	return false
}

// LedgerEntry is one immutable monetary movement. Entries are appended or
// deleted, never updated.
type LedgerEntry struct {
	ID         string
	OwnerID    string
	BucketID   *string
	LabelID    *string
	Kind       EntryKind
	Direction  Direction
	Amount     Cents
	Memo       string
	GroupKey   string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Signed returns the amount as it contributes to a bucket balance.
func (e *LedgerEntry) Signed() Cents {
	if e.Direction == DirectionDebit {
		return -e.Amount
	}
	return e.Amount
}

// ValidateAmount checks the stored amount. An allocation may be zero when its
// bucket's part of a split rounds down to nothing; any other entry must move money.
func (e *LedgerEntry) ValidateAmount() error {
	if e.Kind == EntryKindAllocation && e.Amount == 0 {
		return nil
	}
	return ValidateAmount(e.Amount)
}

// IsIncomeParent reports whether e anchors a split income group.
func (e *LedgerEntry) IsIncomeParent() bool {
	return e.BucketID == nil && e.Kind == EntryKindIncome
}

// Allocation is one bucket's part of a split.
type Allocation struct {
	BucketID   string
	BucketName string
	Amount     Cents
}

// IncomeAllocation is the result of splitting one income.
type IncomeAllocation struct {
	GroupKey    string
	ParentID    string
	TotalAmount Cents
	Memo        string
	OccurredAt  time.Time
	Allocations []Allocation
}

// Sum returns the total of all allocations.
func (ia *IncomeAllocation) Sum() Cents {
	var sum Cents
	for _, a := range ia.Allocations {
		sum += a.Amount
	}
	return sum
}

// Pagination bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxMemoLength   = 500
)

// EntryFilter selects ledger entries for an owner. Nil fields do not filter.
type EntryFilter struct {
	OwnerID   string
	BucketID  *string
	LabelID   *string
	Direction *Direction
	Kind      *EntryKind
	From      *time.Time
	To        *time.Time
	Search    string
	Limit     int
	Offset    int
}

// Validate checks the filter and clamps its pagination.
func (f *EntryFilter) Validate() error {
	if f.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidFilter)
	}
	if f.Direction != nil && !f.Direction.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, ErrInvalidDirection)
	}
	if f.Kind != nil && !f.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidFilter, *f.Kind)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidFilter)
	}

	f.Search = strings.TrimSpace(f.Search)
	f.Limit, f.Offset = ClampPagination(f.Limit, f.Offset)

	return nil
}

// ClampPagination applies default and maximum page sizes.
func ClampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ValidateMemo checks a free-text memo.
func ValidateMemo(memo string) error {
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidMemo, MaxMemoLength)
	}
	return nil
}

// GroupTotal compares an income parent with the sum of its allocations.
type GroupTotal struct {
	GroupKey     string
	ParentAmount Cents
	ChildrenSum  Cents
	Children     int
}

// Balanced reports whether the allocations add up to the parent.
func (g GroupTotal) Balanced() bool {
	return g.ParentAmount == g.ChildrenSum
}
