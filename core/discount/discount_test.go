package discount

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metered-billing/core/money"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
)

type fakeCharge struct {
	usage units.Quantity
	sum   money.Money
}

func (c fakeCharge) Usage() units.Quantity { return c.usage }
func (c fakeCharge) Sum() money.Money      { return c.sum }

func TestParseForms(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		text  string
	}{
		{"10%", KindRelative, "10%"},
		{"12.5%", KindRelative, "12.5%"},
		{"99999%", KindRelative, "99999%"},
		{"3pp", KindPercentPoint, "3pp"},
		{"0.5pp", KindPercentPoint, "0.5pp"},
		{"5 USD", KindAbsolute, "5 USD"},
		{"5.25 EUR", KindAbsolute, "5.25 EUR"},
		{"15", KindRelative, "15%"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, d.Kind())
			assert.Equal(t, tt.text, d.String())
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, input := range []string{
		"", "%", "abc", "10 %", "10%%", "123456%", "1.%", ".5%",
		"10 usd", "10 US", "10  USD", "10 ZZZ", "10 USDX", "10pp ", "-5%",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeSemantics))
			assert.Contains(t, err.Error(), "invalid discount value")
		})
	}
}

func TestNewFromValues(t *testing.T) {
	abs, err := New(money.FromInt(5, money.USD))
	require.NoError(t, err)
	assert.True(t, abs.IsAbsolute())
	assert.False(t, abs.IsRelative())

	rel, err := New(10)
	require.NoError(t, err)
	assert.True(t, rel.IsRelative())
	assert.False(t, rel.IsPercentPoint())

	pp, err := New(NewPercentPoint(decimal.NewFromInt(2)))
	require.NoError(t, err)
	assert.True(t, pp.IsRelative())
	assert.True(t, pp.IsPercentPoint())

	copied, err := New(&pp)
	require.NoError(t, err)
	assert.True(t, copied.Equal(pp))

	_, err = New(struct{}{})
	assert.True(t, errors.IsType(err, errors.TypeSemantics))

	_, err = New(Discount{})
	assert.Error(t, err)
}

func TestNonFiniteFloatsRejected(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), math.Inf(-1), float32(math.Inf(1))} {
		_, err := New(v)
		require.Error(t, err, "%v", v)
		assert.True(t, errors.IsType(err, errors.TypeSemantics), "%v", v)
	}

	d := Must("10%")
	for _, f := range []any{math.NaN(), math.Inf(1)} {
		_, err := d.Multiply(f)
		require.Error(t, err, "%v", f)
		assert.True(t, errors.IsType(err, errors.TypeSemantics), "%v", f)
	}
}

func TestValueRoundTrip(t *testing.T) {
	for _, d := range []Discount{Must("10%"), Must("2.5pp"), Must("5 USD"), Must(7.5)} {
		again, err := New(d.Value())
		require.NoError(t, err)
		assert.True(t, again.Equal(d), d.String())
	}
}

func TestMultiply(t *testing.T) {
	d, err := Must("5 USD").Multiply(3)
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("15 USD")))

	d, err = Must("10%").Multiply("1.5")
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("15%")))

	d, err = Must("2pp").Multiply(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("4pp")))

	_, err = Must("10%").Multiply("twice")
	assert.True(t, errors.IsType(err, errors.TypeSemantics))
}

func TestAdd(t *testing.T) {
	d, err := Must("5 USD").Add("2.5 USD")
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("7.5 USD")))

	d, err = Must("10%").Add(5)
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("15%")))

	d, err = Must("1pp").Add("2pp")
	require.NoError(t, err)
	assert.True(t, d.Equal(Must("3pp")))

	d, err = Must("10%").Add("2pp")
	require.NoError(t, err)
	assert.Equal(t, KindRelative, d.Kind())
}

func TestAddRejectsMixedClassification(t *testing.T) {
	_, err := Must("5 USD").Add("10%")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeSemantics))
	assert.Contains(t, err.Error(), "addend must be absolute")

	_, err = Must("10%").Add("5 USD")
	assert.Contains(t, err.Error(), "addend must be relative")

	_, err = Must("5 USD").Add("5 EUR")
	assert.True(t, errors.IsType(err, errors.TypeSemantics))
}

func TestCompare(t *testing.T) {
	c, err := Must("10%").Compare("15%")
	require.NoError(t, err)
	assert.Less(t, c, 0)

	c, err = Must("7 USD").Compare(money.FromInt(5, money.USD))
	require.NoError(t, err)
	assert.Greater(t, c, 0)

	c, err = Must("3pp").Compare("3%")
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	_, err = Must("3%").Compare("3 USD")
	assert.Contains(t, err.Error(), "comparison argument must be relative")
}

func TestCalculateSum(t *testing.T) {
	c := fakeCharge{usage: units.Gigabytes(4), sum: money.FromInt(200, money.USD)}

	rel, err := Must("10%").CalculateSum(c)
	require.NoError(t, err)
	assert.True(t, money.FromInt(20, money.USD).Equals(rel), rel.String())

	pp, err := Must("5pp").CalculateSum(c)
	require.NoError(t, err)
	assert.True(t, money.FromInt(10, money.USD).Equals(pp))

	abs, err := Must("5 USD").CalculateSum(c)
	require.NoError(t, err)
	assert.True(t, money.FromInt(20, money.USD).Equals(abs), "absolute is a per-unit rate: 5 USD x 4")
}
