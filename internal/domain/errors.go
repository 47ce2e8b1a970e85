package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the parent of every "does not exist or is not yours" error.
var ErrNotFound = errors.New("not found")

var (
	// Bucket registry errors
	ErrInvalidShare      = errors.New("share percent must be between 0 and 100")
	ErrConflictFallback  = errors.New("only one fallback bucket is allowed")
	ErrInsufficientShare = errors.New("not enough share available, specify a donor bucket")
	ErrShareExceeded     = errors.New("total share would exceed 100 percent")
	ErrHasReferences     = errors.New("bucket has ledger entries, reassign or delete them first")
	ErrInvalidBucketName = errors.New("invalid bucket name")
	ErrBucketNotFound    = fmt.Errorf("bucket %w", ErrNotFound)

	// Allocation engine errors
	ErrNoBuckets            = errors.New("create buckets before recording income")
	ErrZeroAllocation       = errors.New("bucket shares sum to zero")
	ErrIncompleteAllocation = errors.New("bucket shares must sum to exactly 100 percent")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrInvalidDirection     = errors.New("direction must be credit or debit")
	ErrInvalidMemo          = errors.New("invalid memo")
	ErrIncomeNotFound       = fmt.Errorf("income %w", ErrNotFound)
	ErrEntryNotFound        = fmt.Errorf("ledger entry %w", ErrNotFound)

	// Label errors
	ErrInvalidLabelName = errors.New("invalid label name")
	ErrLabelExists      = errors.New("a label with this name already exists")
	ErrLabelInUse       = errors.New("label is used by ledger entries")
	ErrLabelNotFound    = fmt.Errorf("label %w", ErrNotFound)

	// Debt errors
	ErrDebtNotFound       = fmt.Errorf("debt %w", ErrNotFound)
	ErrDebtAlreadySettled = errors.New("debt is already settled")
	ErrInvalidDebtType    = errors.New("debt type must be owed_to_me or owed_by_me")
	ErrInvalidPersonName  = errors.New("person name is required")

	// Query errors
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrTransientFailure wraps storage conflicts (serialization failure,
	// deadlock). Nothing was persisted; the caller may retry.
	ErrTransientFailure = errors.New("transient storage failure, retry the operation")
)
