package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// conversions round to this many fractional digits
const precision = 12

// Quantity is an immutable unit-tagged amount
type Quantity struct {
	value decimal.Decimal
	unit  Unit
}

// New creates a quantity
func New(value decimal.Decimal, unit Unit) Quantity {
	return Quantity{value: value, unit: unit}
}

// Bytes returns n bytes
func Bytes(n int64) Quantity { return New(decimal.NewFromInt(n), ByteUnit) }

// Megabytes returns n megabytes
func Megabytes(n int64) Quantity { return New(decimal.NewFromInt(n), MegabyteUnit) }

// Gigabytes returns n gigabytes
func Gigabytes(n int64) Quantity { return New(decimal.NewFromInt(n), GigabyteUnit) }

// Months returns n months
func Months(n int64) Quantity { return New(decimal.NewFromInt(n), MonthUnit) }

// Years returns n years
func Years(n int64) Quantity { return New(decimal.NewFromInt(n), YearUnit) }

// Items returns n items
func Items(n int64) Quantity { return New(decimal.NewFromInt(n), ItemUnit) }

// Parse reads "<number> <unit>", e.g. "10 GB" or "0 year".
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Quantity{}, fmt.Errorf("invalid quantity %q: expected \"<number> <unit>\"", s)
	}
	value, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity number %q: %w", fields[0], err)
	}
	unit, err := Lookup(fields[1])
	if err != nil {
		return Quantity{}, err
	}
	return New(value, unit), nil
}

// Value returns the magnitude in the quantity's own unit
func (q Quantity) Value() decimal.Decimal { return q.value }

// Unit returns the quantity's unit
func (q Quantity) Unit() Unit { return q.unit }

// IsPositive reports value > 0
func (q Quantity) IsPositive() bool { return q.value.IsPositive() }

// Convert expresses q in unit.
func (q Quantity) Convert(unit Unit) (Quantity, error) {
	if !q.unit.IsConvertible(unit) {
		return Quantity{}, fmt.Errorf("cannot convert %s to %s", q.unit, unit)
	}
	if q.unit.Equals(unit) {
		return q, nil
	}
	base := q.value.Mul(q.unit.factor)
	return New(base.DivRound(unit.factor, precision), unit), nil
}

// Add returns q + other expressed in q's unit.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	o, err := other.Convert(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return New(q.value.Add(o.value), q.unit), nil
}

// Subtract returns q - other expressed in q's unit.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	o, err := other.Convert(q.unit)
	if err != nil {
		return Quantity{}, err
	}
	return New(q.value.Sub(o.value), q.unit), nil
}

// Compare returns -1, 0 or 1 after converting other into q's unit.
func (q Quantity) Compare(other Quantity) (int, error) {
	o, err := other.Convert(q.unit)
	if err != nil {
		return 0, err
	}
	return q.value.Cmp(o.value), nil
}

// Equals reports the same unit and numerically equal value.
func (q Quantity) Equals(other Quantity) bool {
	return q.unit.Equals(other.unit) && q.value.Equal(other.value)
}

// String formats the quantity as "<value> <unit>".
func (q Quantity) String() string {
	return q.value.String() + " " + q.unit.name
}

// MarshalText implements encoding.TextMarshaler
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
