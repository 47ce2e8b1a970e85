package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxSharePercent is the ceiling for a single bucket and for an owner's total.
const MaxSharePercent = 100

// MaxBucketNameLength bounds Bucket.Name.
const MaxBucketNameLength = 100

// Bucket is a named allocation target holding a percentage of every income.
type Bucket struct {
	ID           string
	OwnerID      string
	Name         string
	SharePercent int
	IsFallback   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BucketBalance is a bucket with its derived balance.
type BucketBalance struct {
	Bucket  *Bucket
	Balance Cents
}

// IsLow reports whether the balance is flagged as low.
func (b *BucketBalance) IsLow() bool {
	return IsLowBalance(b.Balance)
}

// IsLowBalance reports whether a balance should be flagged in views.
// It never blocks a movement.
func IsLowBalance(balance Cents) bool {
	return balance <= 0
}

// ValidateShare checks a single share value.
func ValidateShare(share int) error {
	if share < 0 || share > MaxSharePercent {
		return fmt.Errorf("%w: got %d", ErrInvalidShare, share)
	}
	return nil
}

// ValidateBucketName checks a bucket name.
func ValidateBucketName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidBucketName)
	}
	if len(name) > MaxBucketNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidBucketName, MaxBucketNameLength)
	}
	return nil
}

// TotalShare sums the share of the given buckets, skipping excludeID.
func TotalShare(buckets []*Bucket, excludeID string) int {
	total := 0
	for _, b := range buckets {
		if b.ID == excludeID {
			continue
		}
		total += b.SharePercent
	}
	return total
}

// FindFallback returns the owner's fallback bucket, or nil.
func FindFallback(buckets []*Bucket) *Bucket {
	for _, b := range buckets {
		if b.IsFallback {
			return b
		}
	}
	return nil
}

// FindBucket returns the bucket with the given id, or nil.
func FindBucket(buckets []*Bucket, id string) *Bucket {
	for _, b := range buckets {
		if b.ID == id {
			return b
		}
	}
	return nil
}
