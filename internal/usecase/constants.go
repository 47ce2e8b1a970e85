package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyInFlight is stored under an idempotency key until the first
// request carrying it has finished.
const IdempotencyInFlight = "processing"

// IsIdempotencyInFlight reports whether a stored idempotency value is the
// in-flight marker rather than a finished response.
func IsIdempotencyInFlight(value []byte) bool {
	return string(value) == IdempotencyInFlight
}
