package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an exact fixed-point monetary value denominated in the
// currency's smallest unit (no fractional digits, VND-style).
type Amount struct {
	dec decimal.Decimal
}

// Zero returns the zero amount.
func Zero() Amount {
	return Amount{dec: decimal.Zero}
}

// FromInt64 builds an amount from a whole number of currency units.
func FromInt64(v int64) Amount {
	return Amount{dec: decimal.NewFromInt(v)}
}

// Parse reads an amount from its decimal string representation.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{dec: d.Round(0)}, nil
}

func (a Amount) Add(b Amount) Amount { return Amount{dec: a.dec.Add(b.dec)} }
func (a Amount) Sub(b Amount) Amount { return Amount{dec: a.dec.Sub(b.dec)} }
func (a Amount) Neg() Amount         { return Amount{dec: a.dec.Neg()} }

// MulInt multiplies by an integer quantity.
func (a Amount) MulInt(n int) Amount {
	return Amount{dec: a.dec.Mul(decimal.NewFromInt(int64(n)))}
}

// Percent returns pct percent of the amount, rounded half-up to the
// smallest currency unit.
func (a Amount) Percent(pct int) Amount {
	return Amount{dec: a.dec.
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		Round(0)}
}

// ApplyDiscountPercent returns the price after reducing by pct percent,
// rounded half-up to the smallest unit.
func (a Amount) ApplyDiscountPercent(pct int) Amount {
	return Amount{dec: a.dec.
		Mul(decimal.NewFromInt(int64(100 - pct))).
		Div(decimal.NewFromInt(100)).
		Round(0)}
}

func (a Amount) Cmp(b Amount) int        { return a.dec.Cmp(b.dec) }
func (a Amount) Equal(b Amount) bool     { return a.dec.Equal(b.dec) }
func (a Amount) LessThan(b Amount) bool  { return a.dec.LessThan(b.dec) }
func (a Amount) IsZero() bool            { return a.dec.IsZero() }
func (a Amount) IsNegative() bool        { return a.dec.IsNegative() }
func (a Amount) IsPositive() bool        { return a.dec.IsPositive() }

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a.dec.LessThan(b.dec) {
		return a
	}
	return b
}

// Sum adds all amounts.
func Sum(amounts ...Amount) Amount {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.dec)
	}
	return Amount{dec: total}
}

func (a Amount) String() string { return a.dec.String() }

// Decimal exposes the underlying decimal for callers that need it.
func (a Amount) Decimal() decimal.Decimal { return a.dec }

// MarshalJSON encodes the amount as a JSON number string.
func (a Amount) MarshalJSON() ([]byte, error) { return a.dec.MarshalJSON() }

// UnmarshalJSON decodes from a JSON number or string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	a.dec = d.Round(0)
	return nil
}

// Value implements driver.Valuer so amounts map to NUMERIC columns.
func (a Amount) Value() (driver.Value, error) { return a.dec.Value() }

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return err
	}
	a.dec = d
	return nil
}
