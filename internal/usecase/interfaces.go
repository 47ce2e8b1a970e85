package usecase

import (
	"context"
	"time"

	"github.com/iho/shareledger/internal/domain"
)

// BucketRepository defines data access for buckets.
// Every lookup is scoped to an owner; a foreign bucket is reported as missing.
type BucketRepository interface {
	// LockOwner serialises registry and ledger mutations of one owner until tx ends.
	LockOwner(ctx context.Context, tx Transaction, ownerID string) error
	Create(ctx context.Context, tx Transaction, bucket *domain.Bucket) error
	Update(ctx context.Context, tx Transaction, bucket *domain.Bucket) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	GetByIDTx(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Bucket, error)
	// ListByOwnerTx returns the owner's buckets in creation order.
	ListByOwnerTx(ctx context.Context, tx Transaction, ownerID string) ([]*domain.Bucket, error)
	// ListByOwner returns the owner's buckets, fallback first, then in creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bucket, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Bucket, error)
	CountEntries(ctx context.Context, tx Transaction, ownerID, bucketID string) (int64, error)
	ListOwners(ctx context.Context) ([]string, error)
}

// LabelRepository defines data access for labels.
type LabelRepository interface {
	Create(ctx context.Context, tx Transaction, label *domain.Label) error
	Update(ctx context.Context, tx Transaction, label *domain.Label) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	GetByIDTx(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Label, error)
	GetByNameTx(ctx context.Context, tx Transaction, ownerID, name string) (*domain.Label, error)
	// ListByOwner returns the owner's labels ordered by name.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Label, error)
	CountEntries(ctx context.Context, tx Transaction, ownerID, labelID string) (int64, error)
}

// LedgerEntryRepository defines data access for ledger entries.
// Entries are only ever inserted or deleted.
type LedgerEntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByIDTx(ctx context.Context, tx Transaction, ownerID, id string) (*domain.LedgerEntry, error)
	GetGroupTx(ctx context.Context, tx Transaction, ownerID, groupKey string) ([]*domain.LedgerEntry, error)
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	DeleteGroup(ctx context.Context, tx Transaction, ownerID, groupKey string) (int64, error)

	BalanceOf(ctx context.Context, ownerID, bucketID string) (domain.Cents, error)
	BalancesByOwner(ctx context.Context, ownerID string) (map[string]domain.Cents, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error)
	ListIncomeParents(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListByGroups(ctx context.Context, ownerID string, groupKeys []string) ([]*domain.LedgerEntry, error)
	IncomeGroupTotals(ctx context.Context, ownerID string) ([]domain.GroupTotal, error)
}

// DebtRepository defines data access for debts.
type DebtRepository interface {
	Create(ctx context.Context, tx Transaction, debt *domain.Debt) error
	GetByIDTx(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Debt, error)
	MarkPaid(ctx context.Context, tx Transaction, ownerID, id string, paidAt time.Time) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	List(ctx context.Context, filter domain.DebtFilter) ([]*domain.Debt, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client can retry it.
	Release(ctx context.Context, key string) error
}

// ReportStore keeps the most recent reconciliation report per owner.
type ReportStore interface {
	Save(ctx context.Context, report *ReconciliationReport) error
	// Latest returns domain.ErrNotFound when the owner was never reconciled.
	Latest(ctx context.Context, ownerID string) (*ReconciliationReport, error)
}
