package domain

import "time"

// Event types
const (
	EventTypeBucketCreated    = "bucket.created"
	EventTypeBucketUpdated    = "bucket.updated"
	EventTypeBucketDeleted    = "bucket.deleted"
	EventTypeIncomeRecorded   = "income.recorded"
	EventTypeIncomeUpdated    = "income.updated"
	EventTypeIncomeDeleted    = "income.deleted"
	EventTypeMovementRecorded = "movement.recorded"
	EventTypeMovementUpdated  = "movement.updated"
	EventTypeMovementDeleted  = "movement.deleted"
	EventTypeDebtCreated      = "debt.created"
	EventTypeDebtSettled      = "debt.settled"
	EventTypeDebtDeleted      = "debt.deleted"
	EventTypeLabelCreated     = "label.created"
	EventTypeLabelUpdated     = "label.updated"
	EventTypeLabelDeleted     = "label.deleted"
)

// Aggregate types
const (
	AggregateTypeBucket   = "bucket"
	AggregateTypeIncome   = "income"
	AggregateTypeMovement = "movement"
	AggregateTypeDebt     = "debt"
	AggregateTypeLabel    = "label"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	OwnerID       string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BucketPayload builds the event payload for a bucket.
func BucketPayload(b *Bucket) map[string]any {
	return map[string]any{
		"bucket_id":     b.ID,
		"name":          b.Name,
		"share_percent": b.SharePercent,
		"is_fallback":   b.IsFallback,
	}
}

// IncomePayload builds the event payload for a split income.
func IncomePayload(ia *IncomeAllocation) map[string]any {
	allocations := make([]map[string]any, len(ia.Allocations))
	for i, a := range ia.Allocations {
		allocations[i] = map[string]any{
			"bucket_id": a.BucketID,
			"amount":    int64(a.Amount),
		}
	}

	return map[string]any{
		"group_key":    ia.GroupKey,
		"total_amount": int64(ia.TotalAmount),
		"occurred_at":  ia.OccurredAt.Format(time.RFC3339),
		"allocations":  allocations,
	}
}

// EntryPayload builds the event payload for a single ledger entry.
func EntryPayload(e *LedgerEntry) map[string]any {
	payload := map[string]any{
		"entry_id":  e.ID,
		"kind":      string(e.Kind),
		"direction": string(e.Direction),
		"amount":    int64(e.Amount),
	}
	if e.BucketID != nil {
		payload["bucket_id"] = *e.BucketID
	}
	if e.LabelID != nil {
		payload["label_id"] = *e.LabelID
	}
	return payload
}

// DebtPayload builds the event payload for a debt.
func DebtPayload(d *Debt) map[string]any {
	return map[string]any{
		"debt_id":     d.ID,
		"person_name": d.PersonName,
		"type":        string(d.Type),
		"amount":      int64(d.Amount),
		"is_paid":     d.IsPaid,
	}
}
