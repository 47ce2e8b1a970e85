package domain

import "fmt"

// SelectDonor picks the bucket whose share is reduced by shortfall when a new
// bucket does not fit in the owner's remaining share.
//
// An explicit donor takes precedence and must be one of buckets with at
// least shortfall share. Without one, the owner's fallback bucket is used if
// it covers the shortfall. There is no other heuristic.
func SelectDonor(buckets []*Bucket, shortfall int, explicitDonorID *string) (string, error) {
	if shortfall <= 0 {
		return "", fmt.Errorf("%w: shortfall must be positive, got %d", ErrInvalidShare, shortfall)
	}

	if explicitDonorID != nil {
		donor := FindBucket(buckets, *explicitDonorID)
		if donor == nil {
			return "", fmt.Errorf("%w: donor bucket %s", ErrInsufficientShare, ErrBucketNotFound)
		}
		if donor.SharePercent < shortfall {
			return "", fmt.Errorf("%w: cannot take %d%% from %q, it only has %d%%",
				ErrInsufficientShare, shortfall, donor.Name, donor.SharePercent)
		}
		return donor.ID, nil
	}

	fallback := FindFallback(buckets)
	if fallback != nil && fallback.SharePercent >= shortfall {
		return fallback.ID, nil
	}

	return "", fmt.Errorf("%w: need %d%% more", ErrInsufficientShare, shortfall)
}
