package domain

import (
	"errors"
	"testing"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		input   string
		want    Cents
		wantErr error
	}{
		{input: "12.34", want: 1234},
		{input: "12,34", want: 1234},
		{input: " 100 ", want: 10000},
		{input: "0.5", want: 50},
		{input: "100.50", want: 10050},
		{input: "-3.10", want: -310},
		{input: "12.345", wantErr: ErrInvalidAmount},
		{input: "", wantErr: ErrInvalidAmount},
		{input: "abc", wantErr: ErrInvalidAmount},
		{input: "1000000000000.01", wantErr: ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCents(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCents_String(t *testing.T) {
	tests := map[Cents]string{
		0:     "0.00",
		5:     "0.05",
		10050: "100.50",
		-310:  "-3.10",
	}

	for cents, want := range tests {
		if got := cents.String(); got != want {
			t.Errorf("Cents(%d).String() = %q, want %q", int64(cents), got, want)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(1); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}
	if err := ValidateAmount(MaxAmount); err != nil {
		t.Fatalf("expected max amount to be valid, got %v", err)
	}
	if err := ValidateAmount(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := ValidateAmount(MaxAmount + 1); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}
