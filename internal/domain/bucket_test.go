package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateShare(t *testing.T) {
	for _, share := range []int{0, 1, 50, 100} {
		if err := ValidateShare(share); err != nil {
			t.Errorf("share %d: unexpected error: %v", share, err)
		}
	}

	for _, share := range []int{-1, 101, 1000} {
		if err := ValidateShare(share); !errors.Is(err, ErrInvalidShare) {
			t.Errorf("share %d: expected ErrInvalidShare, got %v", share, err)
		}
	}
}

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "Groceries"},
		{name: "unicode", input: "Поїздки"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("x", MaxBucketNameLength+1), wantErr: true},
		{name: "max length", input: strings.Repeat("x", MaxBucketNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidBucketName) {
				t.Fatalf("expected ErrInvalidBucketName, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestIsLowBalance(t *testing.T) {
	tests := map[Cents]bool{
		-100: true,
		0:    true,
		1:    false,
		5000: false,
	}

	for balance, want := range tests {
		if got := IsLowBalance(balance); got != want {
			t.Errorf("IsLowBalance(%d) = %v, want %v", int64(balance), got, want)
		}
	}
}

func TestTotalShare(t *testing.T) {
	bs := buckets(50, 30, 20)

	if got := TotalShare(bs, ""); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := TotalShare(bs, "b2"); got != 70 {
		t.Errorf("expected 70 excluding b2, got %d", got)
	}
	if got := TotalShare(nil, ""); got != 0 {
		t.Errorf("expected 0 for no buckets, got %d", got)
	}
}

func TestFindFallback(t *testing.T) {
	bs := buckets(50, 50)
	if FindFallback(bs) != nil {
		t.Fatal("expected no fallback")
	}

	bs[1].IsFallback = true
	if got := FindFallback(bs); got == nil || got.ID != "b2" {
		t.Fatalf("expected b2 as fallback, got %v", got)
	}
}
