package domain

import (
	"errors"
	"fmt"
	"testing"
)

func buckets(shares ...int) []*Bucket {
	out := make([]*Bucket, len(shares))
	for i, s := range shares {
		out[i] = &Bucket{
			ID:           fmt.Sprintf("b%d", i+1),
			Name:         fmt.Sprintf("bucket %d", i+1),
			SharePercent: s,
		}
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		amount   Cents
		shares   []int
		expected []Cents
	}{
		{
			name:     "sixty forty",
			amount:   10050,
			shares:   []int{60, 40},
			expected: []Cents{6030, 4020},
		},
		{
			name:     "single bucket takes everything",
			amount:   999,
			shares:   []int{100},
			expected: []Cents{999},
		},
		{
			name:     "remainder lands on last bucket",
			amount:   100,
			shares:   []int{33, 33, 34},
			expected: []Cents{33, 33, 34},
		},
		{
			name:     "thirds of one cent",
			amount:   1,
			shares:   []int{33, 33, 34},
			expected: []Cents{0, 0, 1},
		},
		{
			name:     "under one hundred uses share total as denominator",
			amount:   1000,
			shares:   []int{30, 20},
			expected: []Cents{600, 400},
		},
		{
			name:     "zero share bucket in the middle",
			amount:   1001,
			shares:   []int{50, 0, 50},
			expected: []Cents{500, 0, 501},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocations, err := Split(tt.amount, buckets(tt.shares...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(allocations) != len(tt.expected) {
				t.Fatalf("expected %d allocations, got %d", len(tt.expected), len(allocations))
			}

			var sum Cents
			for i, a := range allocations {
				if a.Amount != tt.expected[i] {
					t.Errorf("allocation %d: expected %d, got %d", i, tt.expected[i], a.Amount)
				}
				sum += a.Amount
			}

			if sum != tt.amount {
				t.Errorf("allocations sum to %d, want %d", sum, tt.amount)
			}
		})
	}
}

func TestSplit_SumAlwaysEqualsAmount(t *testing.T) {
	distributions := [][]int{
		{100},
		{1, 99},
		{33, 33, 33},
		{7, 13, 17, 19, 23},
		{1, 1, 1},
		{10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
		{0, 1},
		{45, 0, 5},
	}
	amounts := []Cents{1, 2, 3, 7, 99, 100, 101, 10050, 123457, 999999, MaxAmount}

	for _, shares := range distributions {
		for _, amount := range amounts {
			allocations, err := Split(amount, buckets(shares...))
			if err != nil {
				t.Fatalf("shares %v amount %d: unexpected error: %v", shares, amount, err)
			}

			var sum Cents
			for _, a := range allocations {
				if a.Amount < 0 {
					t.Fatalf("shares %v amount %d: negative allocation %d", shares, amount, a.Amount)
				}
				sum += a.Amount
			}

			if sum != amount {
				t.Fatalf("shares %v amount %d: allocations sum to %d", shares, amount, sum)
			}
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		amount  Cents
		buckets []*Bucket
		wantErr error
	}{
		{name: "no buckets", amount: 100, buckets: nil, wantErr: ErrNoBuckets},
		{name: "all shares zero", amount: 100, buckets: buckets(0, 0), wantErr: ErrZeroAllocation},
		{name: "zero amount", amount: 0, buckets: buckets(100), wantErr: ErrInvalidAmount},
		{name: "negative amount", amount: -5, buckets: buckets(100), wantErr: ErrInvalidAmount},
		{name: "amount too large", amount: MaxAmount + 1, buckets: buckets(100), wantErr: ErrAmountTooLarge},
		{name: "shares over one hundred", amount: 100, buckets: buckets(70, 40), wantErr: ErrShareExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.amount, tt.buckets)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSplit_KeepsBucketOrder(t *testing.T) {
	bs := buckets(25, 25, 50)

	allocations, err := Split(400, bs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, a := range allocations {
		if a.BucketID != bs[i].ID {
			t.Errorf("allocation %d: expected bucket %s, got %s", i, bs[i].ID, a.BucketID)
		}
		if a.BucketName != bs[i].Name {
			t.Errorf("allocation %d: expected name %s, got %s", i, bs[i].Name, a.BucketName)
		}
	}
}
