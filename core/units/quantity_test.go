package units

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	q, err := Parse("10 GB")
	require.NoError(t, err)
	assert.True(t, q.Equals(Gigabytes(10)))

	q, err = Parse("0 year")
	require.NoError(t, err)
	assert.Equal(t, YearUnit, q.Unit())

	_, err = Parse("10")
	assert.Error(t, err)
	_, err = Parse("10 parsecs")
	assert.ErrorContains(t, err, "unknown unit")
}

func TestConvert(t *testing.T) {
	y, err := Months(24).Convert(YearUnit)
	require.NoError(t, err)
	assert.True(t, y.Equals(Years(2)), y.String())

	gb, err := Megabytes(1).Convert(GigabyteUnit)
	require.NoError(t, err)
	assert.True(t, gb.Value().Equal(decimal.RequireFromString("0.001")))

	_, err = Bytes(1).Convert(YearUnit)
	assert.ErrorContains(t, err, "cannot convert")
}

func TestAddSubtractCompare(t *testing.T) {
	sum, err := Years(1).Add(Months(6))
	require.NoError(t, err)
	assert.True(t, sum.Value().Equal(decimal.RequireFromString("1.5")))

	diff, err := Gigabytes(100).Subtract(Gigabytes(10))
	require.NoError(t, err)
	assert.True(t, diff.Equals(Gigabytes(90)))

	c, err := Bytes(1).Compare(Gigabytes(10))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = Items(1).Add(Years(1))
	assert.Error(t, err)
}

func TestLookupAliases(t *testing.T) {
	for _, name := range []string{"GB", "gigabyte", "gigabytes", "Gb"} {
		u, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, GigabyteUnit, u)
	}
	assert.Contains(t, Names(), "month")
}

func TestTextRoundTrip(t *testing.T) {
	data, err := json.Marshal(map[string]Quantity{"q": Gigabytes(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"3 gigabyte"}`, string(data))

	var out map[string]Quantity
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out["q"].Equals(Gigabytes(3)))
}
