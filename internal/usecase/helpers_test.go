package usecase_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
	"github.com/iho/shareledger/internal/usecase"
	"github.com/iho/shareledger/internal/usecase/mocks"
)

const (
	owner      = "owner-1"
	otherOwner = "owner-2"
)

type harness struct {
	store   *mocks.Store
	txMgr   *mocks.MockTransactionManager
	buckets *mocks.MockBucketRepository
	labels  *mocks.MockLabelRepository
	entries *mocks.MockLedgerEntryRepository
	debts   *mocks.MockDebtRepository
	outbox  *mocks.MockOutboxRepository
	idGen   *mocks.MockIDGenerator
	metrics *metrics.Metrics

	bucketUC   *usecase.BucketUseCase
	incomeUC   *usecase.IncomeUseCase
	movementUC *usecase.MovementUseCase
	labelUC    *usecase.LabelUseCase
	balanceUC  *usecase.BalanceUseCase
	debtUC     *usecase.DebtUseCase
	reconUC    *usecase.ReconciliationUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := mocks.NewStore()
	h := &harness{
		store:   store,
		txMgr:   mocks.NewMockTransactionManager(store),
		buckets: mocks.NewMockBucketRepository(store),
		labels:  mocks.NewMockLabelRepository(store),
		entries: mocks.NewMockLedgerEntryRepository(store),
		debts:   mocks.NewMockDebtRepository(store),
		outbox:  mocks.NewMockOutboxRepository(store),
		idGen:   mocks.NewMockIDGenerator(),
		metrics: metrics.New(prometheus.NewRegistry()),
	}

	h.bucketUC = usecase.NewBucketUseCase(h.txMgr, h.buckets, h.entries, h.outbox, h.idGen, h.metrics)
	h.incomeUC = usecase.NewIncomeUseCase(h.txMgr, h.buckets, h.entries, h.outbox, h.idGen, h.metrics)
	h.movementUC = usecase.NewMovementUseCase(h.txMgr, h.buckets, h.labels, h.entries, h.outbox, h.idGen, h.metrics)
	h.labelUC = usecase.NewLabelUseCase(h.txMgr, h.buckets, h.labels, h.outbox, h.idGen)
	h.balanceUC = usecase.NewBalanceUseCase(h.buckets, h.entries)
	h.debtUC = usecase.NewDebtUseCase(h.txMgr, h.buckets, h.entries, h.debts, h.outbox, h.idGen, h.metrics)
	h.reconUC = usecase.NewReconciliationUseCase(h.buckets, h.entries, h.metrics)

	return h
}

// seedBucket stores a bucket directly, bypassing the registry rules.
func (h *harness) seedBucket(ownerID, id string, share int, fallback bool) *domain.Bucket {
	now := time.Now().UTC()
	b := &domain.Bucket{
		ID:           id,
		OwnerID:      ownerID,
		Name:         id,
		SharePercent: share,
		IsFallback:   fallback,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	h.store.AddBucket(b)
	return b
}

func (h *harness) seedLabel(ownerID, id, name string) *domain.Label {
	now := time.Now().UTC()
	l := &domain.Label{ID: id, OwnerID: ownerID, Name: name, CreatedAt: now, UpdatedAt: now}
	h.store.AddLabel(l)
	return l
}

func (h *harness) shares(t *testing.T, ownerID string) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, b := range h.store.Buckets(ownerID) {
		out[b.ID] = b.SharePercent
	}
	return out
}

func (h *harness) requireShareWithinLimit(t *testing.T, ownerID string) {
	t.Helper()
	total := domain.TotalShare(h.store.Buckets(ownerID), "")
	require.LessOrEqual(t, total, domain.MaxSharePercent, "share total exceeded 100")
}

func ptr[T any](v T) *T { return &v }
