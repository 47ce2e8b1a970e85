package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/usecase"
	"github.com/iho/shareledger/internal/usecase/mocks/gomocks"
)

type gomockDeps struct {
	txMgr   *gomocks.MockTransactionManager
	tx      *gomocks.MockTransaction
	buckets *gomocks.MockBucketRepository
	entries *gomocks.MockLedgerEntryRepository
	outbox  *gomocks.MockOutboxRepository
	idGen   *gomocks.MockIDGenerator
}

func newGomockDeps(t *testing.T) *gomockDeps {
	ctrl := gomock.NewController(t)

	d := &gomockDeps{
		txMgr:   gomocks.NewMockTransactionManager(ctrl),
		tx:      gomocks.NewMockTransaction(ctrl),
		buckets: gomocks.NewMockBucketRepository(ctrl),
		entries: gomocks.NewMockLedgerEntryRepository(ctrl),
		outbox:  gomocks.NewMockOutboxRepository(ctrl),
		idGen:   gomocks.NewMockIDGenerator(ctrl),
	}

	n := 0
	d.idGen.EXPECT().Generate().DoAndReturn(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}).AnyTimes()

	return d
}

func (d *gomockDeps) incomeUseCase() *usecase.IncomeUseCase {
	return usecase.NewIncomeUseCase(d.txMgr, d.buckets, d.entries, d.outbox, d.idGen, nil)
}

func TestRecordIncome_BeginFailure(t *testing.T) {
	d := newGomockDeps(t)
	beginErr := errors.New("connection refused")

	d.txMgr.EXPECT().Begin(gomock.Any()).Return(nil, beginErr)

	_, err := d.incomeUseCase().RecordIncome(context.Background(), usecase.RecordIncomeInput{
		OwnerID: owner,
		Amount:  1000,
	})
	require.ErrorIs(t, err, beginErr)
}

func TestRecordIncome_TransientCommitFailureRollsBack(t *testing.T) {
	d := newGomockDeps(t)
	ctx := context.Background()

	buckets := []*domain.Bucket{
		{ID: "a", OwnerID: owner, Name: "a", SharePercent: 60},
		{ID: "b", OwnerID: owner, Name: "b", SharePercent: 40},
	}

	gomock.InOrder(
		d.txMgr.EXPECT().Begin(gomock.Any()).Return(d.tx, nil),
		d.buckets.EXPECT().LockOwner(gomock.Any(), d.tx, owner).Return(nil),
		d.buckets.EXPECT().ListByOwnerTx(gomock.Any(), d.tx, owner).Return(buckets, nil),
		d.entries.EXPECT().Create(gomock.Any(), d.tx, gomock.Any()).Return(nil).Times(3),
		d.outbox.EXPECT().Create(gomock.Any(), d.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
				assert.Equal(t, domain.EventTypeIncomeRecorded, e.EventType)
				assert.Equal(t, owner, e.OwnerID)
				return nil
			}),
		d.tx.EXPECT().Commit(gomock.Any()).Return(fmt.Errorf("commit: %w", domain.ErrTransientFailure)),
		d.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	_, err := d.incomeUseCase().RecordIncome(ctx, usecase.RecordIncomeInput{OwnerID: owner, Amount: 1000})
	require.ErrorIs(t, err, domain.ErrTransientFailure)
}

func TestRecordIncome_LockFailureSkipsWrites(t *testing.T) {
	d := newGomockDeps(t)
	lockErr := fmt.Errorf("lock: %w", domain.ErrTransientFailure)

	d.txMgr.EXPECT().Begin(gomock.Any()).Return(d.tx, nil)
	d.buckets.EXPECT().LockOwner(gomock.Any(), d.tx, owner).Return(lockErr)
	d.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	_, err := d.incomeUseCase().RecordIncome(context.Background(), usecase.RecordIncomeInput{OwnerID: owner, Amount: 1000})
	require.ErrorIs(t, err, domain.ErrTransientFailure)
}
