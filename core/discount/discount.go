// Package discount provides the discount modifier: an absolute amount of
// money, a relative percentage or a number of percent points.
package discount

import (
	"math"

	"github.com/shopspring/decimal"

	"metered-billing/core/money"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
)

// Kind classifies a discount
type Kind int

const (
	// KindAbsolute discounts wrap money and act as a per-unit rate
	KindAbsolute Kind = iota + 1

	// KindRelative discounts are a percentage of the charge sum
	KindRelative

	// KindPercentPoint discounts are percent points of the charge sum
	KindPercentPoint
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindAbsolute:
		return "absolute"
	case KindRelative:
		return "relative"
	case KindPercentPoint:
		return "percent-point"
	default:
		return "invalid"
	}
}

// PercentPoint is a number of percent points
type PercentPoint struct {
	number decimal.Decimal
}

// NewPercentPoint wraps n
func NewPercentPoint(n decimal.Decimal) PercentPoint {
	return PercentPoint{number: n}
}

// Number returns the wrapped number
func (p PercentPoint) Number() decimal.Decimal {
	return p.number
}

// Chargeable is what a discount is applied to
type Chargeable interface {
	Usage() units.Quantity
	Sum() money.Money
}

// Discount is an immutable tagged value. The zero Discount is invalid; build
// one with New or Parse.
type Discount struct {
	kind   Kind
	amount money.Money
	number decimal.Decimal
}

// New builds a discount from another Discount, money.Money, PercentPoint, a
// bare number (relative) or a literal accepted by Parse.
func New(value any) (Discount, error) {
	switch v := value.(type) {
	case Discount:
		if v.kind == 0 {
			return Discount{}, errors.Semantics("invalid discount value: uninitialized discount")
		}
		return v, nil
	case *Discount:
		if v == nil {
			return Discount{}, errors.Semantics("invalid discount value: nil")
		}
		return New(*v)
	case money.Money:
		return Absolute(v), nil
	case PercentPoint:
		return Discount{kind: KindPercentPoint, number: v.number}, nil
	case string:
		return Parse(v)
	}
	if n, ok := toDecimal(value); ok {
		return Relative(n), nil
	}
	return Discount{}, errors.Semantics("invalid discount value: %v", value)
}

// Must is New that panics on error. Use only with literals.
func Must(value any) Discount {
	d, err := New(value)
	if err != nil {
		panic(err)
	}
	return d
}

// Absolute creates an absolute discount
func Absolute(m money.Money) Discount {
	return Discount{kind: KindAbsolute, amount: m}
}

// Relative creates a relative discount of n percent
func Relative(n decimal.Decimal) Discount {
	return Discount{kind: KindRelative, number: n}
}

// Kind returns the classification
func (d Discount) Kind() Kind { return d.kind }

// IsAbsolute reports whether d wraps money
func (d Discount) IsAbsolute() bool { return d.kind == KindAbsolute }

// IsRelative reports whether d acts on the charge sum (relative or percent points)
func (d Discount) IsRelative() bool { return d.kind == KindRelative || d.kind == KindPercentPoint }

// IsPercentPoint reports whether d is a number of percent points
func (d Discount) IsPercentPoint() bool { return d.kind == KindPercentPoint }

// Value returns the wrapped value: money.Money, decimal.Decimal or
// PercentPoint. New(d.Value()) yields a discount equal to d.
func (d Discount) Value() any {
	switch d.kind {
	case KindAbsolute:
		return d.amount
	case KindRelative:
		return d.number
	case KindPercentPoint:
		return NewPercentPoint(d.number)
	default:
		return nil
	}
}

// Money returns the wrapped money of an absolute discount
func (d Discount) Money() (money.Money, bool) {
	return d.amount, d.kind == KindAbsolute
}

// Number returns the number of a relative or percent-point discount
func (d Discount) Number() (decimal.Decimal, bool) {
	return d.number, d.IsRelative()
}

// Multiply scales the discount. factor must be numeric.
func (d Discount) Multiply(factor any) (Discount, error) {
	f, ok := toDecimal(factor)
	if !ok {
		return Discount{}, errors.Semantics("multiplier for discount must be numeric, got %v", factor)
	}
	switch d.kind {
	case KindAbsolute:
		return Absolute(d.amount.Multiply(f)), nil
	case KindRelative, KindPercentPoint:
		return Discount{kind: d.kind, number: d.number.Mul(f)}, nil
	default:
		return Discount{}, errors.Semantics("cannot multiply an uninitialized discount")
	}
}

// Add sums two discounts of the same classification. Bare values are
// converted with New first. Mixing relative and percent points yields a
// relative discount.
func (d Discount) Add(addend any) (Discount, error) {
	other, err := New(addend)
	if err != nil {
		return Discount{}, err
	}
	if err := d.ensureSameClass(other, "addend"); err != nil {
		return Discount{}, err
	}
	switch d.kind {
	case KindAbsolute:
		sum, err := d.amount.Add(other.amount)
		if err != nil {
			return Discount{}, errors.Semantics("addend: %v", err)
		}
		return Absolute(sum), nil
	case KindRelative, KindPercentPoint:
		kind := d.kind
		if other.kind != d.kind {
			kind = KindRelative
		}
		return Discount{kind: kind, number: d.number.Add(other.number)}, nil
	default:
		return Discount{}, errors.Semantics("cannot add to an uninitialized discount")
	}
}

// Compare orders two discounts of the same classification: negative when d
// is smaller, zero when equal, positive when larger.
func (d Discount) Compare(other any) (int, error) {
	o, err := New(other)
	if err != nil {
		return 0, err
	}
	if err := d.ensureSameClass(o, "comparison argument"); err != nil {
		return 0, err
	}
	switch d.kind {
	case KindAbsolute:
		c, err := d.amount.Compare(o.amount)
		if err != nil {
			return 0, errors.Semantics("comparison argument: %v", err)
		}
		return c, nil
	case KindRelative, KindPercentPoint:
		return d.number.Cmp(o.number), nil
	default:
		return 0, errors.Semantics("cannot compare an uninitialized discount")
	}
}

func (d Discount) ensureSameClass(other Discount, name string) error {
	switch {
	case d.IsRelative() && !other.IsRelative():
		return errors.Semantics("%s must be relative", name)
	case d.IsAbsolute() && !other.IsAbsolute():
		return errors.Semantics("%s must be absolute", name)
	}
	return nil
}

// CalculateSum returns the discount amount for a charge. Absolute discounts
// are a rate per unit of usage; relative and percent-point discounts take a
// percentage of the charge sum.
func (d Discount) CalculateSum(c Chargeable) (money.Money, error) {
	switch d.kind {
	case KindAbsolute:
		return d.amount.Multiply(c.Usage().Value()), nil
	case KindRelative, KindPercentPoint:
		return c.Sum().Multiply(d.number.Shift(-2)), nil
	default:
		return money.Money{}, errors.Semantics("cannot apply an uninitialized discount")
	}
}

// Equal reports same classification and equal value
func (d Discount) Equal(other Discount) bool {
	if d.kind != other.kind {
		return false
	}
	if d.kind == KindAbsolute {
		return d.amount.Equals(other.amount)
	}
	return d.number.Equal(other.number)
}

// String formats d in literal form: "10%", "5pp" or "5 USD".
func (d Discount) String() string {
	switch d.kind {
	case KindAbsolute:
		return d.amount.Amount().String() + " " + d.amount.Currency().String()
	case KindRelative:
		return d.number.String() + "%"
	case KindPercentPoint:
		return d.number.String() + "pp"
	default:
		return "<invalid discount>"
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		if !finite(float64(n)) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat32(n), true
	case float64:
		if !finite(n) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
