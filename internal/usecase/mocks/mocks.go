package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

// Store is an in-memory ledger shared by the mock repositories.
// MockTransactionManager snapshots it on Begin and restores the snapshot on
// Rollback, so a failed use case leaves no partial writes behind.
type Store struct {
	mu      sync.Mutex
	seq     int64
	buckets map[string]*domain.Bucket
	labels  map[string]*domain.Label
	entries map[string]*domain.LedgerEntry
	debts   map[string]*domain.Debt
	events  map[string]*domain.OutboxEvent
	order   map[string]int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		buckets: make(map[string]*domain.Bucket),
		labels:  make(map[string]*domain.Label),
		entries: make(map[string]*domain.LedgerEntry),
		debts:   make(map[string]*domain.Debt),
		events:  make(map[string]*domain.OutboxEvent),
		order:   make(map[string]int64),
	}
}

type snapshot struct {
	seq     int64
	buckets map[string]*domain.Bucket
	labels  map[string]*domain.Label
	entries map[string]*domain.LedgerEntry
	debts   map[string]*domain.Debt
	events  map[string]*domain.OutboxEvent
	order   map[string]int64
}

func (s *Store) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &snapshot{
		seq:     s.seq,
		buckets: make(map[string]*domain.Bucket, len(s.buckets)),
		labels:  make(map[string]*domain.Label, len(s.labels)),
		entries: make(map[string]*domain.LedgerEntry, len(s.entries)),
		debts:   make(map[string]*domain.Debt, len(s.debts)),
		events:  make(map[string]*domain.OutboxEvent, len(s.events)),
		order:   make(map[string]int64, len(s.order)),
	}
	for k, v := range s.buckets {
		snap.buckets[k] = copyBucket(v)
	}
	for k, v := range s.labels {
		l := *v
		snap.labels[k] = &l
	}
	for k, v := range s.entries {
		snap.entries[k] = copyEntry(v)
	}
	for k, v := range s.debts {
		snap.debts[k] = copyDebt(v)
	}
	for k, v := range s.events {
		e := *v
		snap.events[k] = &e
	}
	for k, v := range s.order {
		snap.order[k] = v
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = snap.seq
	s.buckets = snap.buckets
	s.labels = snap.labels
	s.entries = snap.entries
	s.debts = snap.debts
	s.events = snap.events
	s.order = snap.order
}

func (s *Store) nextSeq(id string) {
	s.seq++
	s.order[id] = s.seq
}

// AddBucket seeds a bucket.
func (s *Store) AddBucket(b *domain.Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[b.ID] = copyBucket(b)
	s.nextSeq(b.ID)
}

// AddLabel seeds a label.
func (s *Store) AddLabel(l *domain.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *l
	s.labels[l.ID] = &c
	s.nextSeq(l.ID)
}

// Labels returns the owner's labels ordered by name.
func (s *Store) Labels(ownerID string) []*domain.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Label
	for _, l := range s.labels {
		if l.OwnerID == ownerID {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddEntry seeds a ledger entry.
func (s *Store) AddEntry(e *domain.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = copyEntry(e)
	s.nextSeq(e.ID)
}

// AddDebt seeds a debt.
func (s *Store) AddDebt(d *domain.Debt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debts[d.ID] = copyDebt(d)
	s.nextSeq(d.ID)
}

// Buckets returns the owner's buckets in creation order.
func (s *Store) Buckets(ownerID string) []*domain.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucketsLocked(ownerID)
}

func (s *Store) bucketsLocked(ownerID string) []*domain.Bucket {
	var out []*domain.Bucket
	for _, b := range s.buckets {
		if b.OwnerID == ownerID {
			out = append(out, copyBucket(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out
}

// Entries returns the owner's ledger entries in insertion order.
func (s *Store) Entries(ownerID string) []*domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked(func(e *domain.LedgerEntry) bool { return e.OwnerID == ownerID })
}

func (s *Store) entriesLocked(match func(*domain.LedgerEntry) bool) []*domain.LedgerEntry {
	var out []*domain.LedgerEntry
	for _, e := range s.entries {
		if match(e) {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out
}

// Events returns every outbox event in insertion order.
func (s *Store) Events() []*domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.OutboxEvent, 0, len(s.events))
	for _, e := range s.events {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out
}

// Debt returns a stored debt or nil.
func (s *Store) Debt(id string) *domain.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.debts[id]; ok {
		return copyDebt(d)
	}
	return nil
}

func copyBucket(b *domain.Bucket) *domain.Bucket {
	c := *b
	return &c
}

func copyEntry(e *domain.LedgerEntry) *domain.LedgerEntry {
	c := *e
	if e.BucketID != nil {
		id := *e.BucketID
		c.BucketID = &id
	}
	if e.LabelID != nil {
		id := *e.LabelID
		c.LabelID = &id
	}
	return &c
}

func copyDebt(d *domain.Debt) *domain.Debt {
	c := *d
	if d.BucketID != nil {
		id := *d.BucketID
		c.BucketID = &id
	}
	return &c
}

// MockBucketRepository is a mock implementation of BucketRepository.
type MockBucketRepository struct {
	store *Store

	LockOwnerFunc  func(ctx context.Context, tx usecase.Transaction, ownerID string) error
	CreateFunc     func(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error
	UpdateFunc     func(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error
	ListOwnersFunc func(ctx context.Context) ([]string, error)
}

func NewMockBucketRepository(store *Store) *MockBucketRepository {
	return &MockBucketRepository{store: store}
}

func (m *MockBucketRepository) LockOwner(ctx context.Context, tx usecase.Transaction, ownerID string) error {
	if m.LockOwnerFunc != nil {
		return m.LockOwnerFunc(ctx, tx, ownerID)
	}
	return nil
}

func (m *MockBucketRepository) Create(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, bucket)
	}
	m.store.AddBucket(bucket)
	return nil
}

func (m *MockBucketRepository) Update(ctx context.Context, tx usecase.Transaction, bucket *domain.Bucket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, bucket)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.buckets[bucket.ID]
	if !ok || existing.OwnerID != bucket.OwnerID {
		return domain.ErrBucketNotFound
	}
	m.store.buckets[bucket.ID] = copyBucket(bucket)
	return nil
}

func (m *MockBucketRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.buckets[id]
	if !ok || existing.OwnerID != ownerID {
		return domain.ErrBucketNotFound
	}
	delete(m.store.buckets, id)
	return nil
}

func (m *MockBucketRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Bucket, error) {
	return m.GetByID(ctx, ownerID, id)
}

func (m *MockBucketRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Bucket, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	b, ok := m.store.buckets[id]
	if !ok || b.OwnerID != ownerID {
		return nil, domain.ErrBucketNotFound
	}
	return copyBucket(b), nil
}

func (m *MockBucketRepository) ListByOwnerTx(ctx context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Bucket, error) {
	return m.store.Buckets(ownerID), nil
}

func (m *MockBucketRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bucket, error) {
	buckets := m.store.Buckets(ownerID)
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].IsFallback && !buckets[j].IsFallback
	})
	return buckets, nil
}

func (m *MockBucketRepository) CountEntries(ctx context.Context, tx usecase.Transaction, ownerID, bucketID string) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for _, e := range m.store.entries {
		if e.OwnerID == ownerID && e.BucketID != nil && *e.BucketID == bucketID {
			n++
		}
	}
	return n, nil
}

func (m *MockBucketRepository) ListOwners(ctx context.Context) ([]string, error) {
	if m.ListOwnersFunc != nil {
		return m.ListOwnersFunc(ctx)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	seen := make(map[string]bool)
	var owners []string
	for _, b := range m.store.buckets {
		if !seen[b.OwnerID] {
			seen[b.OwnerID] = true
			owners = append(owners, b.OwnerID)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

// MockLabelRepository is a mock implementation of LabelRepository.
type MockLabelRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, label *domain.Label) error
}

func NewMockLabelRepository(store *Store) *MockLabelRepository {
	return &MockLabelRepository{store: store}
}

func (m *MockLabelRepository) Create(ctx context.Context, tx usecase.Transaction, label *domain.Label) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, label)
	}
	for _, l := range m.store.Labels(label.OwnerID) {
		if l.Name == label.Name {
			return domain.ErrLabelExists
		}
	}
	m.store.AddLabel(label)
	return nil
}

func (m *MockLabelRepository) Update(ctx context.Context, tx usecase.Transaction, label *domain.Label) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.labels[label.ID]
	if !ok || existing.OwnerID != label.OwnerID {
		return domain.ErrLabelNotFound
	}
	c := *label
	m.store.labels[label.ID] = &c
	return nil
}

func (m *MockLabelRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.labels[id]
	if !ok || existing.OwnerID != ownerID {
		return domain.ErrLabelNotFound
	}
	delete(m.store.labels, id)
	return nil
}

func (m *MockLabelRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Label, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	l, ok := m.store.labels[id]
	if !ok || l.OwnerID != ownerID {
		return nil, domain.ErrLabelNotFound
	}
	c := *l
	return &c, nil
}

func (m *MockLabelRepository) GetByNameTx(ctx context.Context, tx usecase.Transaction, ownerID, name string) (*domain.Label, error) {
	for _, l := range m.store.Labels(ownerID) {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, domain.ErrLabelNotFound
}

func (m *MockLabelRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Label, error) {
	return m.store.Labels(ownerID), nil
}

func (m *MockLabelRepository) CountEntries(ctx context.Context, tx usecase.Transaction, ownerID, labelID string) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for _, e := range m.store.entries {
		if e.OwnerID == ownerID && e.LabelID != nil && *e.LabelID == labelID {
			n++
		}
	}
	return n, nil
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository.
type MockLedgerEntryRepository struct {
	store *Store

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	DeleteGroupFunc func(ctx context.Context, tx usecase.Transaction, ownerID, groupKey string) (int64, error)
}

func NewMockLedgerEntryRepository(store *Store) *MockLedgerEntryRepository {
	return &MockLedgerEntryRepository{store: store}
}

// Create applies the same amount rule as the ledger_entries table.
func (m *MockLedgerEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	if err := entry.ValidateAmount(); err != nil {
		return err
	}
	m.store.AddEntry(entry)
	return nil
}

func (m *MockLedgerEntryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.LedgerEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	e, ok := m.store.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrEntryNotFound
	}
	return copyEntry(e), nil
}

func (m *MockLedgerEntryRepository) GetGroupTx(ctx context.Context, tx usecase.Transaction, ownerID, groupKey string) ([]*domain.LedgerEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.entriesLocked(func(e *domain.LedgerEntry) bool {
		return e.OwnerID == ownerID && e.GroupKey == groupKey
	}), nil
}

func (m *MockLedgerEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	e, ok := m.store.entries[id]
	if !ok || e.OwnerID != ownerID {
		return domain.ErrEntryNotFound
	}
	delete(m.store.entries, id)
	return nil
}

func (m *MockLedgerEntryRepository) DeleteGroup(ctx context.Context, tx usecase.Transaction, ownerID, groupKey string) (int64, error) {
	if m.DeleteGroupFunc != nil {
		return m.DeleteGroupFunc(ctx, tx, ownerID, groupKey)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for id, e := range m.store.entries {
		if e.OwnerID == ownerID && e.GroupKey == groupKey {
			delete(m.store.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MockLedgerEntryRepository) BalanceOf(ctx context.Context, ownerID, bucketID string) (domain.Cents, error) {
	balances, err := m.BalancesByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return balances[bucketID], nil
}

func (m *MockLedgerEntryRepository) BalancesByOwner(ctx context.Context, ownerID string) (map[string]domain.Cents, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	balances := make(map[string]domain.Cents)
	for _, e := range m.store.entries {
		if e.OwnerID == ownerID && e.BucketID != nil {
			balances[*e.BucketID] += e.Signed()
		}
	}
	return balances, nil
}

func (m *MockLedgerEntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	search := strings.ToLower(filter.Search)
	entries := m.store.entriesLocked(func(e *domain.LedgerEntry) bool {
		switch {
		case e.OwnerID != filter.OwnerID:
			return false
		case filter.BucketID != nil && (e.BucketID == nil || *e.BucketID != *filter.BucketID):
			return false
		case filter.LabelID != nil && (e.LabelID == nil || *e.LabelID != *filter.LabelID):
			return false
		case filter.Direction != nil && e.Direction != *filter.Direction:
			return false
		case filter.Kind != nil && e.Kind != *filter.Kind:
			return false
		case filter.From != nil && e.OccurredAt.Before(*filter.From):
			return false
		case filter.To != nil && e.OccurredAt.After(*filter.To):
			return false
		case search != "" && !strings.Contains(strings.ToLower(e.Memo), search):
			return false
		}
		return true
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})

	return paginate(entries, filter.Limit, filter.Offset), nil
}

func (m *MockLedgerEntryRepository) ListIncomeParents(ctx context.Context, ownerID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	parents := m.store.entriesLocked(func(e *domain.LedgerEntry) bool {
		return e.OwnerID == ownerID && e.IsIncomeParent()
	})
	sort.SliceStable(parents, func(i, j int) bool {
		return parents[i].OccurredAt.After(parents[j].OccurredAt)
	})
	return paginate(parents, limit, offset), nil
}

func (m *MockLedgerEntryRepository) ListByGroups(ctx context.Context, ownerID string, groupKeys []string) ([]*domain.LedgerEntry, error) {
	keys := make(map[string]bool, len(groupKeys))
	for _, k := range groupKeys {
		keys[k] = true
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.entriesLocked(func(e *domain.LedgerEntry) bool {
		return e.OwnerID == ownerID && keys[e.GroupKey] && e.BucketID != nil
	}), nil
}

func (m *MockLedgerEntryRepository) IncomeGroupTotals(ctx context.Context, ownerID string) ([]domain.GroupTotal, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	entries := m.store.entriesLocked(func(e *domain.LedgerEntry) bool { return e.OwnerID == ownerID })

	totals := make(map[string]*domain.GroupTotal)
	var keys []string
	for _, e := range entries {
		if !e.IsIncomeParent() {
			continue
		}
		totals[e.GroupKey] = &domain.GroupTotal{GroupKey: e.GroupKey, ParentAmount: e.Amount}
		keys = append(keys, e.GroupKey)
	}
	for _, e := range entries {
		if e.Kind != domain.EntryKindAllocation {
			continue
		}
		if g, ok := totals[e.GroupKey]; ok {
			g.ChildrenSum += e.Signed()
			g.Children++
		}
	}

	out := make([]domain.GroupTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, *totals[k])
	}
	return out, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// MockDebtRepository is a mock implementation of DebtRepository.
type MockDebtRepository struct {
	store *Store

	CreateFunc   func(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error
	MarkPaidFunc func(ctx context.Context, tx usecase.Transaction, ownerID, id string, paidAt time.Time) error
}

func NewMockDebtRepository(store *Store) *MockDebtRepository {
	return &MockDebtRepository{store: store}
}

func (m *MockDebtRepository) Create(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, debt)
	}
	m.store.AddDebt(debt)
	return nil
}

func (m *MockDebtRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Debt, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	d, ok := m.store.debts[id]
	if !ok || d.OwnerID != ownerID {
		return nil, domain.ErrDebtNotFound
	}
	return copyDebt(d), nil
}

func (m *MockDebtRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, ownerID, id string, paidAt time.Time) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, tx, ownerID, id, paidAt)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	d, ok := m.store.debts[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrDebtNotFound
	}
	d.IsPaid = true
	d.PaidAt = &paidAt
	d.UpdatedAt = paidAt
	return nil
}

func (m *MockDebtRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	d, ok := m.store.debts[id]
	if !ok || d.OwnerID != ownerID {
		return domain.ErrDebtNotFound
	}
	delete(m.store.debts, id)
	return nil
}

func (m *MockDebtRepository) List(ctx context.Context, filter domain.DebtFilter) ([]*domain.Debt, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var debts []*domain.Debt
	for _, d := range m.store.debts {
		if d.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Type != nil && d.Type != *filter.Type {
			continue
		}
		if filter.IsPaid != nil && d.IsPaid != *filter.IsPaid {
			continue
		}
		debts = append(debts, copyDebt(d))
	}

	sort.Slice(debts, func(i, j int) bool {
		if debts[i].IsPaid != debts[j].IsPaid {
			return !debts[i].IsPaid
		}
		return m.store.order[debts[i].ID] > m.store.order[debts[j].ID]
	})
	return debts, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository(store *Store) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	e := *event
	m.store.events[event.ID] = &e
	m.store.nextSeq(event.ID)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, e := range m.store.Events() {
		if !e.Published {
			out = append(out, e)
		}
	}
	return paginate(out, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if e, ok := m.store.events[id]; ok {
		e.Published = true
		e.PublishedAt = &publishedAt
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var n int64
	for id, e := range m.store.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(m.store.events, id)
			n++
		}
	}
	return n, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// With a store it snapshots on Begin; rolled back transactions restore it.
type MockTransactionManager struct {
	store *Store

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
	// CommitErr, when set, is returned by the next Commit, which then does not commit.
	CommitErr error

	Begun      int
	Committed  int
	RolledBack int
}

func NewMockTransactionManager(store *Store) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Begun++
	tx := &MockTransaction{manager: m}
	if m.store != nil {
		tx.snap = m.store.snapshot()
	}
	return tx, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	manager *MockTransactionManager
	snap    *snapshot
	done    bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	if m.manager != nil && m.manager.CommitErr != nil {
		err := m.manager.CommitErr
		m.manager.CommitErr = nil
		return err
	}
	if m.done {
		return fmt.Errorf("transaction already closed")
	}
	m.done = true
	if m.manager != nil {
		m.manager.Committed++
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if m.done {
		return nil
	}
	m.done = true
	if m.manager != nil {
		m.manager.RolledBack++
		if m.manager.store != nil && m.snap != nil {
			m.manager.store.restore(m.snap)
		}
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyInFlight)
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
