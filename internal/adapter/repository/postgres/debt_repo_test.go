package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/iho/shareledger/internal/domain"
)

var debtColumns = []string{
	"id", "owner_id", "person_name", "amount_minor_units", "description", "type",
	"bucket_id", "due_date", "is_paid", "paid_at", "created_at", "updated_at",
}

func TestDebtRepositoryMarkPaidTwice(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)
	repo := NewDebtRepository(pool)

	pool.ExpectExec("UPDATE debts SET is_paid = TRUE").
		WithArgs("owner-1", "d1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkPaid(context.Background(), tx, "owner-1", "d1", time.Now())
	if !errors.Is(err, domain.ErrDebtNotFound) {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
}

func TestDebtRepositoryList(t *testing.T) {
	pool := newMockPool(t)
	repo := NewDebtRepository(pool)
	now := time.Now().UTC()

	owedToMe := domain.DebtOwedToMe
	unpaid := false

	pool.ExpectQuery("FROM debts").
		WithArgs("owner-1", pgtype.Text{String: "owed_to_me", Valid: true}, pgtype.Bool{Bool: false, Valid: true}).
		WillReturnRows(pgxmock.NewRows(debtColumns).
			AddRow("d1", "owner-1", "Marta", int64(2500), "tickets", "owed_to_me", "b1", nil, false, nil, now, now))

	debts, err := repo.List(context.Background(), domain.DebtFilter{OwnerID: "owner-1", Type: &owedToMe, IsPaid: &unpaid})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(debts) != 1 {
		t.Fatalf("expected 1 debt, got %d", len(debts))
	}
	d := debts[0]
	if d.Amount != 2500 || d.BucketID == nil || *d.BucketID != "b1" || d.DueDate != nil || d.PaidAt != nil {
		t.Fatalf("unexpected debt: %+v", d)
	}
	if !d.MovesLedger() {
		t.Fatalf("expected lending from a bucket to move the ledger")
	}

	assertExpectations(t, pool)
}
