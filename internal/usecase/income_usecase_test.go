package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

func TestIncomeUseCase_RecordIncome_SplitsExactly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 60, true)
	h.seedBucket(owner, "b", 40, false)

	result, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{
		OwnerID: owner,
		Amount:  10050,
		Memo:    "salary",
	})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, domain.Cents(6030), result.Allocations[0].Amount)
	assert.Equal(t, domain.Cents(4020), result.Allocations[1].Amount)
	assert.Equal(t, result.TotalAmount, result.Sum())

	entries := h.store.Entries(owner)
	require.Len(t, entries, 3)

	parent := entries[0]
	assert.Nil(t, parent.BucketID)
	assert.Equal(t, domain.EntryKindIncome, parent.Kind)
	assert.Equal(t, domain.Cents(10050), parent.Amount)
	assert.Equal(t, result.ParentID, parent.ID)

	for _, child := range entries[1:] {
		require.NotNil(t, child.BucketID)
		assert.Equal(t, result.GroupKey, child.GroupKey)
		assert.Equal(t, domain.EntryKindAllocation, child.Kind)
		assert.Equal(t, domain.DirectionCredit, child.Direction)
		assert.Equal(t, "salary", child.Memo)
	}

	balance, err := h.balanceUC.BalanceOf(ctx, owner, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(6030), balance.Balance)

	events := h.store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTypeIncomeRecorded, events[0].EventType)
}

func TestIncomeUseCase_RecordIncome_ProportionalBelowHundred(t *testing.T) {
	h := newHarness(t)

	h.seedBucket(owner, "a", 30, false)
	h.seedBucket(owner, "b", 20, false)

	result, err := h.incomeUC.RecordIncome(context.Background(), usecase.RecordIncomeInput{
		OwnerID: owner,
		Amount:  1000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Cents(600), result.Allocations[0].Amount)
	assert.Equal(t, domain.Cents(400), result.Allocations[1].Amount)
}

func TestIncomeUseCase_RecordIncome_RoundsShareDownToZero(t *testing.T) {
	tests := []struct {
		name   string
		shares []int
		amount domain.Cents
		want   []domain.Cents
	}{
		{name: "zero percent bucket", shares: []int{0, 100}, amount: 500, want: []domain.Cents{0, 500}},
		{name: "one cent over two halves", shares: []int{50, 50}, amount: 1, want: []domain.Cents{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ids := []string{"a", "b"}
			for i, share := range tt.shares {
				h.seedBucket(owner, ids[i], share, false)
			}

			result, err := h.incomeUC.RecordIncome(context.Background(), usecase.RecordIncomeInput{
				OwnerID: owner,
				Amount:  tt.amount,
			})
			require.NoError(t, err)

			require.Len(t, result.Allocations, 2)
			for i, want := range tt.want {
				assert.Equal(t, want, result.Allocations[i].Amount)
			}
			require.Len(t, h.store.Entries(owner), 3)

			report, err := h.reconUC.ReconcileOwner(context.Background(), owner)
			require.NoError(t, err)
			assert.True(t, report.Consistent())
		})
	}
}

func TestIncomeUseCase_RecordIncome_UsesGivenDate(t *testing.T) {
	h := newHarness(t)
	h.seedBucket(owner, "a", 100, false)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	result, err := h.incomeUC.RecordIncome(context.Background(), usecase.RecordIncomeInput{
		OwnerID:    owner,
		Amount:     500,
		OccurredAt: &when,
	})
	require.NoError(t, err)
	assert.True(t, when.Equal(result.OccurredAt))

	for _, e := range h.store.Entries(owner) {
		assert.True(t, when.Equal(e.OccurredAt))
	}
}

func TestIncomeUseCase_RecordIncome_Errors(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(h *harness)
		amount  domain.Cents
		wantErr error
	}{
		{
			name:    "no buckets",
			amount:  100,
			wantErr: domain.ErrNoBuckets,
		},
		{
			name: "only another owner has buckets",
			seed: func(h *harness) {
				h.seedBucket(otherOwner, "x", 100, false)
			},
			amount:  100,
			wantErr: domain.ErrNoBuckets,
		},
		{
			name: "all shares zero",
			seed: func(h *harness) {
				h.seedBucket(owner, "a", 0, true)
				h.seedBucket(owner, "b", 0, false)
			},
			amount:  100,
			wantErr: domain.ErrZeroAllocation,
		},
		{
			name: "zero amount",
			seed: func(h *harness) {
				h.seedBucket(owner, "a", 100, false)
			},
			amount:  0,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			seed: func(h *harness) {
				h.seedBucket(owner, "a", 100, false)
			},
			amount:  -100,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "amount too large",
			seed: func(h *harness) {
				h.seedBucket(owner, "a", 100, false)
			},
			amount:  domain.MaxAmount + 1,
			wantErr: domain.ErrAmountTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if tt.seed != nil {
				tt.seed(h)
			}

			_, err := h.incomeUC.RecordIncome(context.Background(), usecase.RecordIncomeInput{
				OwnerID: owner,
				Amount:  tt.amount,
			})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.store.Entries(owner))
			assert.Empty(t, h.store.Events())
		})
	}
}

func TestIncomeUseCase_RecordIncome_AllOrNothing(t *testing.T) {
	h := newHarness(t)
	h.seedBucket(owner, "a", 50, false)
	h.seedBucket(owner, "b", 50, false)

	writes := 0
	failure := errors.New("disk full")
	h.entries.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
		writes++
		if writes == 3 {
			return failure
		}
		h.store.AddEntry(entry)
		return nil
	}

	_, err := h.incomeUC.RecordIncome(context.Background(), usecase.RecordIncomeInput{OwnerID: owner, Amount: 100})
	require.ErrorIs(t, err, failure)

	assert.Empty(t, h.store.Entries(owner), "parent and first child must be rolled back")
}

func TestIncomeUseCase_UpdateIncome_PurgesAndResplits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 50, false)
	h.seedBucket(owner, "b", 50, false)

	original, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 1000, Memo: "march"})
	require.NoError(t, err)

	oldIDs := make(map[string]bool)
	for _, e := range h.store.Entries(owner) {
		oldIDs[e.ID] = true
	}

	// Shares changed after the income was first recorded.
	_, err = h.bucketUC.UpdateBucket(ctx, usecase.UpdateBucketInput{OwnerID: owner, BucketID: "b", SharePercent: ptr(30)})
	require.NoError(t, err)
	h.seedBucket(owner, "c", 20, false)

	updated, err := h.incomeUC.UpdateIncome(ctx, usecase.UpdateIncomeInput{
		OwnerID:  owner,
		GroupKey: original.GroupKey,
		Amount:   ptr(domain.Cents(2001)),
	})
	require.NoError(t, err)

	assert.Equal(t, original.GroupKey, updated.GroupKey)
	assert.Equal(t, "march", updated.Memo, "memo kept when not given")
	require.Len(t, updated.Allocations, 3)
	assert.Equal(t, domain.Cents(1000), updated.Allocations[0].Amount)
	assert.Equal(t, domain.Cents(600), updated.Allocations[1].Amount)
	assert.Equal(t, domain.Cents(401), updated.Allocations[2].Amount)

	entries := h.store.Entries(owner)
	require.Len(t, entries, 4, "one parent plus one child per current bucket")

	var sum domain.Cents
	for _, e := range entries {
		assert.False(t, oldIDs[e.ID], "stale entry %s survived the update", e.ID)
		assert.Equal(t, original.GroupKey, e.GroupKey)
		if e.BucketID != nil {
			sum += e.Amount
		}
	}
	assert.Equal(t, domain.Cents(2001), sum)
}

func TestIncomeUseCase_UpdateIncome_NotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)
	h.seedBucket(otherOwner, "x", 100, false)

	foreign, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: otherOwner, Amount: 100})
	require.NoError(t, err)

	debt, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{
		OwnerID: owner, PersonName: "Ivan", Amount: 50, Type: domain.DebtOwedToMe, BucketID: ptr("a"),
	})
	require.NoError(t, err)

	for name, key := range map[string]string{
		"unknown key":          "nope",
		"other owner's income": foreign.GroupKey,
		"debt group":           debt.GroupKey(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.incomeUC.UpdateIncome(ctx, usecase.UpdateIncomeInput{OwnerID: owner, GroupKey: key, Amount: ptr(domain.Cents(1))})
			require.ErrorIs(t, err, domain.ErrIncomeNotFound)

			err = h.incomeUC.DeleteIncome(ctx, owner, key)
			require.ErrorIs(t, err, domain.ErrIncomeNotFound)
		})
	}

	assert.Len(t, h.store.Entries(otherOwner), 2)
	assert.Len(t, h.store.Entries(owner), 1)
}

func TestIncomeUseCase_DeleteIncome(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 70, false)
	h.seedBucket(owner, "b", 30, false)

	keep, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 100})
	require.NoError(t, err)
	drop, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 999})
	require.NoError(t, err)

	require.NoError(t, h.incomeUC.DeleteIncome(ctx, owner, drop.GroupKey))

	entries := h.store.Entries(owner)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, keep.GroupKey, e.GroupKey)
	}

	balance, err := h.balanceUC.BalanceOf(ctx, owner, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(70), balance.Balance)
}

func TestIncomeUseCase_ListIncome(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 60, false)
	h.seedBucket(owner, "b", 40, false)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 100, OccurredAt: &older, Memo: "jan"})
	require.NoError(t, err)
	_, err = h.incomeUC.RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 200, OccurredAt: &newer, Memo: "feb"})
	require.NoError(t, err)

	incomes, err := h.incomeUC.ListIncome(ctx, owner, 0, 0)
	require.NoError(t, err)
	require.Len(t, incomes, 2)

	assert.Equal(t, "feb", incomes[0].Memo)
	assert.Equal(t, "jan", incomes[1].Memo)

	require.Len(t, incomes[0].Allocations, 2)
	assert.Equal(t, "a", incomes[0].Allocations[0].BucketName)
	assert.Equal(t, domain.Cents(120), incomes[0].Allocations[0].Amount)
	assert.Equal(t, incomes[0].TotalAmount, incomes[0].Sum())

	page, err := h.incomeUC.ListIncome(ctx, owner, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "jan", page[0].Memo)
}
