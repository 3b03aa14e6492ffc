// Package money provides a currency-tagged fixed-point amount.
// Money is immutable - all operations return new values.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Currency is an ISO-4217 currency code
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency validates an ISO-4217 code.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return Currency(unit.String()), nil
}

// Scale returns the number of minor-unit digits for the currency (2 for USD).
func (c Currency) Scale() int32 {
	unit, err := currency.ParseISO(string(c))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Money is a currency-tagged decimal amount
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates Money, validating the currency code.
func New(amount decimal.Decimal, code string) (Money, error) {
	cur, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: cur}, nil
}

// Of creates Money from a trusted currency constant.
func Of(amount decimal.Decimal, cur Currency) Money {
	return Money{amount: amount, currency: cur}
}

// FromInt creates Money of whole currency units.
func FromInt(amount int64, cur Currency) Money {
	return Of(decimal.NewFromInt(amount), cur)
}

// Zero returns a zero amount in cur
func Zero(cur Currency) Money {
	return Money{amount: decimal.Zero, currency: cur}
}

// Parse reads "<amount> <CODE>", e.g. "11.99 USD".
func Parse(s string) (Money, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Money{}, fmt.Errorf("invalid money %q: expected \"<amount> <currency>\"", s)
	}
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", fields[0], err)
	}
	return New(amount, fields[1])
}

// MustParse is Parse that panics on error. Use only with literals.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

// Add returns the sum; currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference; currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Multiply returns m scaled by factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Divide returns m divided by divisor
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, fmt.Errorf("cannot divide %s by zero", m)
	}
	return Money{amount: m.amount.Div(divisor), currency: m.currency}, nil
}

// Compare returns -1, 0 or 1; currencies must match.
func (m Money) Compare(other Money) (int, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// Min returns the smaller of m and other; currencies must match.
func (m Money) Min(other Money) (Money, error) {
	c, err := m.Compare(other)
	if err != nil {
		return Money{}, err
	}
	if c <= 0 {
		return m, nil
	}
	return other, nil
}

// Equals reports same currency and numerically equal amount.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Round rounds half-even to the currency's minor unit.
func (m Money) Round() Money {
	return Money{amount: m.amount.RoundBank(m.currency.Scale()), currency: m.currency}
}

// String formats the amount at the currency's scale, e.g. "15.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixedBank(m.currency.Scale()), m.currency)
}

type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.String(), Currency: m.currency})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := New(amount, string(v.Currency))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
