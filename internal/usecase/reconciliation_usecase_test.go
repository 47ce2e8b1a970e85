package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
	"github.com/iho/shareledger/internal/usecase/mocks/gomocks"
)

func TestReconciliationUseCase_ReconcileOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 33, false)
	h.seedBucket(owner, "b", 33, false)
	h.seedBucket(owner, "c", 34, false)

	for _, amount := range []domain.Cents{1, 2, 100, 10050, 99999} {
		_, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: amount})
		require.NoError(t, err)
	}

	report, err := h.reconUC.ReconcileOwner(ctx, owner)
	require.NoError(t, err)

	assert.True(t, report.Consistent())
	assert.Equal(t, 5, report.GroupsChecked)
	assert.Equal(t, 100, report.TotalSharePercent)
}

func TestReconciliationUseCase_ReportsBrokenGroups(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	now := time.Now().UTC()

	h.seedBucket(owner, "a", 100, false)

	bucketID := "a"
	h.store.AddEntry(&domain.LedgerEntry{
		ID: "p1", OwnerID: owner, Kind: domain.EntryKindIncome, Direction: domain.DirectionCredit,
		Amount: 100, GroupKey: "g1", OccurredAt: now,
	})
	h.store.AddEntry(&domain.LedgerEntry{
		ID: "c1", OwnerID: owner, BucketID: &bucketID, Kind: domain.EntryKindAllocation,
		Direction: domain.DirectionCredit, Amount: 90, GroupKey: "g1", OccurredAt: now,
	})
	h.store.AddEntry(&domain.LedgerEntry{
		ID: "p2", OwnerID: owner, Kind: domain.EntryKindIncome, Direction: domain.DirectionCredit,
		Amount: 50, GroupKey: "g2", OccurredAt: now,
	})

	report, err := h.reconUC.ReconcileOwner(ctx, owner)
	require.NoError(t, err)

	assert.False(t, report.Consistent())
	require.Len(t, report.Discrepancies, 2)
	assert.Equal(t, "g1", report.Discrepancies[0].GroupKey)
	assert.Equal(t, domain.Cents(90), report.Discrepancies[0].ChildrenSum)
	assert.Equal(t, 0, report.Discrepancies[1].Children)
}

func TestReconciliationUseCase_ReconcileAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)
	// Seeded past the registry rules to simulate corrupted data.
	h.seedBucket(otherOwner, "x", 80, false)
	h.seedBucket(otherOwner, "y", 40, false)

	reports, err := h.reconUC.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.True(t, reports[0].Consistent())
	assert.False(t, reports[1].ShareWithinLimit())

	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ReconciliationRuns))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.ReconciliationDiscrepancies))
}

func TestReconciliationUseCase_StoresReports(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	h.seedBucket(owner, "a", 100, false)

	store := gomocks.NewMockReportStore(ctrl)
	store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *usecase.ReconciliationReport) error {
			assert.Equal(t, owner, r.OwnerID)
			return nil
		})
	store.EXPECT().
		Latest(gomock.Any(), owner).
		Return(&usecase.ReconciliationReport{OwnerID: owner, TotalSharePercent: 100}, nil)

	uc := usecase.NewReconciliationUseCase(h.buckets, h.entries, nil).WithReportStore(store)

	_, err := uc.ReconcileAll(ctx)
	require.NoError(t, err)

	latest, err := uc.LatestReport(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 100, latest.TotalSharePercent)
}

func TestReconciliationUseCase_LatestReportWithoutStore(t *testing.T) {
	h := newHarness(t)

	_, err := h.reconUC.LatestReport(context.Background(), owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
