package domain

// Split divides amount across buckets proportionally to their share, using
// the buckets' share total as the denominator. Buckets are taken in the
// given order; each gets floor(amount*share/total) except the last, which
// absorbs the rounding remainder so that the allocations sum to amount.
//
// Callers pass buckets in creation order.
func Split(amount Cents, buckets []*Bucket) ([]Allocation, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return nil, ErrNoBuckets
	}

	total := int64(TotalShare(buckets, ""))
	if total <= 0 {
		return nil, ErrZeroAllocation
	}
	if total > MaxSharePercent {
		return nil, ErrShareExceeded
	}

	allocations := make([]Allocation, len(buckets))
	var running Cents

	last := len(buckets) - 1
	for i, b := range buckets {
		var allocated Cents
		if i == last {
			allocated = amount - running
		} else {
			// amount <= MaxAmount and share <= 100, so the product fits in int64.
			allocated = Cents(int64(amount) * int64(b.SharePercent) / total)
			running += allocated
		}

		allocations[i] = Allocation{
			BucketID:   b.ID,
			BucketName: b.Name,
			Amount:     allocated,
		}
	}

	return allocations, nil
}
