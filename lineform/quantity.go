package lineform

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a decimal amount that travels as a bare JSON number, never
// as a quoted string.
type Quantity struct {
	decimal.Decimal
}

func NewQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return Quantity{d}, nil
}

// MustQuantity parses s and panics on failure. For constants and tests.
func MustQuantity(s string) Quantity {
	q, err := NewQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func QuantityFromInt(n int64) Quantity {
	return Quantity{decimal.NewFromInt(n)}
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("parse quantity %s: %w", b, err)
	}
	q.Decimal = d
	return nil
}

// Positive reports whether the quantity is strictly greater than zero.
func (q Quantity) Positive() bool {
	return q.Decimal.IsPositive()
}

// IsWholeNumber reports whether the quantity has no fractional part.
func (q Quantity) IsWholeNumber() bool {
	return q.Decimal.Equal(q.Decimal.Truncate(0))
}
