package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/postgres/generated"
	"github.com/iho/shareledger/internal/usecase"
)

// PostgreSQL error codes.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrCheckViolation       = "23514"
)

// Constraint names the adapter translates.
const (
	fallbackIndex    = "uq_buckets_owner_fallback"
	labelNameIndex   = "uq_labels_owner_name"
	entryLabelFK     = "fk_ledger_entries_label"
	entryAmountCheck = "chk_ledger_entries_amount"
)

// mapError turns storage conflicts into domain errors. The original error
// stays in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure:
		return fmt.Errorf("%w: %w", domain.ErrTransientFailure, err)
	case pgErrUniqueViolation:
		switch pgErr.ConstraintName {
		case fallbackIndex:
			return fmt.Errorf("%w: %w", domain.ErrConflictFallback, err)
		case labelNameIndex:
			return fmt.Errorf("%w: %w", domain.ErrLabelExists, err)
		}
	case pgErrForeignKeyViolation:
		if pgErr.ConstraintName == entryLabelFK {
			return fmt.Errorf("%w: %w", domain.ErrLabelInUse, err)
		}
		if pgErr.TableName == "ledger_entries" {
			return fmt.Errorf("%w: %w", domain.ErrHasReferences, err)
		}
	case pgErrCheckViolation:
		if pgErr.ConstraintName == entryAmountCheck {
			return fmt.Errorf("%w: %w", domain.ErrInvalidAmount, err)
		}
	}

	return err
}

// isRetryableError reports whether err is worth retrying in a fresh transaction.
func isRetryableError(err error) bool {
	if errors.Is(err, domain.ErrTransientFailure) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return true
		}
	}
	return false
}

func txQueries(tx usecase.Transaction) *generated.Queries {
	return generated.New(tx.(*Tx).PgxTx())
}

// Type conversion helpers.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func pgTimestamptzToTimePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func stringToPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func pgTextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
