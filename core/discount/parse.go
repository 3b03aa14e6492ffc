package discount

import (
	"github.com/shopspring/decimal"

	"metered-billing/core/money"
	"metered-billing/internal/errors"
)

// maxIntegerDigits bounds the integer part of a discount literal
const maxIntegerDigits = 5

// Parse reads a discount literal. Plain numeric text is a relative discount;
// otherwise exactly one of these forms is accepted:
//
//	12.5%     relative
//	3pp       percent points
//	5.25 USD  absolute, ISO-4217 currency
//
// The number has one to five integer digits and an optional fraction.
func Parse(s string) (Discount, error) {
	if n, err := decimal.NewFromString(s); err == nil {
		return Relative(n), nil
	}

	end := scanNumber(s)
	if end < 0 {
		return Discount{}, invalid(s)
	}
	number, err := decimal.NewFromString(s[:end])
	if err != nil {
		return Discount{}, invalid(s)
	}

	switch suffix := s[end:]; {
	case suffix == "%":
		return Relative(number), nil
	case suffix == "pp":
		return Discount{kind: KindPercentPoint, number: number}, nil
	case len(suffix) == 4 && suffix[0] == ' ' && isUpperCode(suffix[1:]):
		m, err := money.New(number, suffix[1:])
		if err != nil {
			return Discount{}, invalid(s)
		}
		return Absolute(m), nil
	default:
		return Discount{}, invalid(s)
	}
}

// scanNumber returns the end offset of a leading "d{1,5}(.d+)?" or -1.
func scanNumber(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 || i > maxIntegerDigits {
		return -1
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i+1 {
			return -1
		}
		i = j
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isUpperCode(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func invalid(s string) error {
	return errors.Semantics("invalid discount value: %s", s)
}
