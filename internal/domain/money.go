package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in minor units. All stored and computed
// amounts use Cents; decimal is only used at the text boundary.
type Cents int64

// MaxAmount bounds a single movement so that amount*MaxSharePercent fits in int64.
const MaxAmount Cents = 100_000_000_000_000

var hundred = decimal.NewFromInt(100)

// ParseCents converts a decimal string ("12.34", "12,34", "12") into cents.
// More than two fractional digits are rejected rather than rounded.
func ParseCents(s string) (Cents, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	return CentsFromDecimal(d)
}

// CentsFromDecimal converts a major-unit decimal into cents.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	minor := d.Mul(hundred)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidAmount)
	}

	if minor.GreaterThan(decimal.NewFromInt(int64(MaxAmount))) || minor.LessThan(decimal.NewFromInt(-int64(MaxAmount))) {
		return 0, ErrAmountTooLarge
	}

	return Cents(minor.IntPart()), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimals, e.g. "100.50".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// ValidateAmount checks that a movement amount is positive and bounded.
func ValidateAmount(amount Cents) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > MaxAmount {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}
