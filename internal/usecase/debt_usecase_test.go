package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
)

func TestDebtUseCase_LendingMovesBucket(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)

	debt, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{
		OwnerID:     owner,
		PersonName:  "Marta",
		Amount:      2500,
		Description: "concert tickets",
		Type:        domain.DebtOwedToMe,
		BucketID:    ptr("a"),
	})
	require.NoError(t, err)

	entries := h.store.Entries(owner)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryKindDebt, entries[0].Kind)
	assert.Equal(t, domain.DirectionDebit, entries[0].Direction)
	assert.Equal(t, debt.GroupKey(), entries[0].GroupKey)
	assert.Equal(t, "Lent to Marta: concert tickets", entries[0].Memo)

	balance, err := h.balanceUC.BalanceOf(ctx, owner, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(-2500), balance.Balance)

	settled, err := h.debtUC.SettleDebt(ctx, owner, debt.ID)
	require.NoError(t, err)
	assert.True(t, settled.IsPaid)
	require.NotNil(t, settled.PaidAt)

	balance, err = h.balanceUC.BalanceOf(ctx, owner, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(0), balance.Balance)

	_, err = h.debtUC.SettleDebt(ctx, owner, debt.ID)
	require.ErrorIs(t, err, domain.ErrDebtAlreadySettled)
	assert.Len(t, h.store.Entries(owner), 2, "second settle must not write")
}

func TestDebtUseCase_BorrowingNeverTouchesLedger(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)

	debt, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{
		OwnerID:    owner,
		PersonName: "Bank",
		Amount:     10000,
		Type:       domain.DebtOwedByMe,
		BucketID:   ptr("a"),
	})
	require.NoError(t, err)

	_, err = h.debtUC.SettleDebt(ctx, owner, debt.ID)
	require.NoError(t, err)

	assert.Empty(t, h.store.Entries(owner))
}

func TestDebtUseCase_CreateDebt_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateDebtInput
		wantErr error
	}{
		{
			name:    "foreign bucket",
			input:   usecase.CreateDebtInput{PersonName: "A", Amount: 100, Type: domain.DebtOwedToMe, BucketID: ptr("x")},
			wantErr: domain.ErrBucketNotFound,
		},
		{
			name:    "missing person",
			input:   usecase.CreateDebtInput{Amount: 100, Type: domain.DebtOwedToMe},
			wantErr: domain.ErrInvalidPersonName,
		},
		{
			name:    "unknown type",
			input:   usecase.CreateDebtInput{PersonName: "A", Amount: 100, Type: "gift"},
			wantErr: domain.ErrInvalidDebtType,
		},
		{
			name:    "non-positive amount",
			input:   usecase.CreateDebtInput{PersonName: "A", Amount: 0, Type: domain.DebtOwedByMe},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedBucket(owner, "a", 100, false)
			h.seedBucket(otherOwner, "x", 100, false)

			input := tt.input
			input.OwnerID = owner

			_, err := h.debtUC.CreateDebt(context.Background(), input)
			require.ErrorIs(t, err, tt.wantErr)

			list, err := h.debtUC.ListDebts(context.Background(), domain.DebtFilter{OwnerID: owner})
			require.NoError(t, err)
			assert.Empty(t, list.Debts)
			assert.Empty(t, h.store.Entries(owner))
		})
	}
}

func TestDebtUseCase_ListDebts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	create := func(person string, amount domain.Cents, typ domain.DebtType) *domain.Debt {
		d, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{OwnerID: owner, PersonName: person, Amount: amount, Type: typ})
		require.NoError(t, err)
		return d
	}

	paid := create("Oleh", 1000, domain.DebtOwedToMe)
	create("Iryna", 3000, domain.DebtOwedToMe)
	create("Landlord", 1200, domain.DebtOwedByMe)

	_, err := h.debtUC.SettleDebt(ctx, owner, paid.ID)
	require.NoError(t, err)

	list, err := h.debtUC.ListDebts(ctx, domain.DebtFilter{OwnerID: owner})
	require.NoError(t, err)

	require.Len(t, list.Debts, 3)
	assert.False(t, list.Debts[0].IsPaid, "unpaid first")
	assert.True(t, list.Debts[2].IsPaid)

	assert.Equal(t, domain.Cents(3000), list.Summary.OwedToMe)
	assert.Equal(t, domain.Cents(1200), list.Summary.OwedByMe)
	assert.Equal(t, domain.Cents(1800), list.Summary.Net)

	owedByMe := domain.DebtOwedByMe
	filtered, err := h.debtUC.ListDebts(ctx, domain.DebtFilter{OwnerID: owner, Type: &owedByMe})
	require.NoError(t, err)
	require.Len(t, filtered.Debts, 1)
	assert.Equal(t, "Landlord", filtered.Debts[0].PersonName)

	unpaid := false
	filtered, err = h.debtUC.ListDebts(ctx, domain.DebtFilter{OwnerID: owner, IsPaid: &unpaid})
	require.NoError(t, err)
	assert.Len(t, filtered.Debts, 2)

	bad := domain.DebtType("gift")
	_, err = h.debtUC.ListDebts(ctx, domain.DebtFilter{OwnerID: owner, Type: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidDebtType)
}

func TestDebtUseCase_DeleteDebt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)

	debt, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{
		OwnerID: owner, PersonName: "Marta", Amount: 500, Type: domain.DebtOwedToMe, BucketID: ptr("a"),
	})
	require.NoError(t, err)

	require.ErrorIs(t, h.debtUC.DeleteDebt(ctx, otherOwner, debt.ID), domain.ErrDebtNotFound)
	require.NoError(t, h.debtUC.DeleteDebt(ctx, owner, debt.ID))
	assert.Nil(t, h.store.Debt(debt.ID))

	// The money already moved stays in the ledger.
	assert.Len(t, h.store.Entries(owner), 1)

	_, err = h.debtUC.SettleDebt(ctx, owner, debt.ID)
	require.ErrorIs(t, err, domain.ErrDebtNotFound)
}

func TestDebtUseCase_DeleteDebt_LocksOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.seedBucket(owner, "a", 100, false)

	debt, err := h.debtUC.CreateDebt(ctx, usecase.CreateDebtInput{
		OwnerID: owner, PersonName: "Marta", Amount: 500, Type: domain.DebtOwedToMe, BucketID: ptr("a"),
	})
	require.NoError(t, err)

	lockErr := errors.New("lock timeout")
	var locked []string
	h.buckets.LockOwnerFunc = func(ctx context.Context, tx usecase.Transaction, ownerID string) error {
		locked = append(locked, ownerID)
		return lockErr
	}

	require.ErrorIs(t, h.debtUC.DeleteDebt(ctx, owner, debt.ID), lockErr)
	assert.Equal(t, []string{owner}, locked)
	assert.NotNil(t, h.store.Debt(debt.ID))
}
