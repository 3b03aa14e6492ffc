package bill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metered-billing/core/charge"
	"metered-billing/core/money"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
)

func newBill() *Bill {
	typ := &types.Type{Name: "server_traf"}
	return New("", typ, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		money.FromInt(30, money.USD), units.Gigabytes(3),
		&types.Customer{Login: "acme"}, nil, nil, nil)
}

func TestSetID(t *testing.T) {
	b := newBill()
	require.NoError(t, b.SetID("b-1"))
	assert.Equal(t, "b-1", b.ID())

	assert.NoError(t, b.SetID("b-1"))

	err := b.SetID("b-2")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvariant))
	assert.Equal(t, "b-1", b.ID())
}

func TestSetCharges(t *testing.T) {
	b := newBill()
	assert.False(t, b.HasCharges())

	ch := charge.New(&types.Action{ID: "a"}, nil, units.Gigabytes(3), money.FromInt(30, money.USD))
	require.NoError(t, b.SetCharges([]*charge.Charge{ch}))
	assert.True(t, b.HasCharges())

	err := b.SetCharges([]*charge.Charge{ch})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInvariant))
	assert.Len(t, b.Charges(), 1)
}

func TestFinished(t *testing.T) {
	b := newBill()
	assert.False(t, b.IsFinished())
	assert.Equal(t, State(""), b.State())

	b.SetFinished()
	assert.True(t, b.IsFinished())
	assert.Equal(t, StateFinished, b.State())
}

func TestCalculatePrice(t *testing.T) {
	b := newBill()
	p, err := b.CalculatePrice()
	require.NoError(t, err)
	assert.True(t, p.Equals(money.FromInt(10, money.USD)), p.String())

	b.SetQuantity(units.Gigabytes(0))
	p, err = b.CalculatePrice()
	require.NoError(t, err)
	assert.True(t, p.Equals(money.FromInt(30, money.USD)))
}

func TestUniqueString(t *testing.T) {
	b := newBill()
	assert.Equal(t, "USD-acme--server_traf-2024-01-01T00:00:00Z", b.UniqueString())

	b.target = &types.Target{ID: "srv-1"}
	assert.Equal(t, "USD-acme-srv-1-server_traf-2024-01-01T00:00:00Z", b.UniqueString())
}

func TestComment(t *testing.T) {
	b := newBill()
	b.SetComment("manual correction")
	assert.Equal(t, "manual correction", b.Comment())
	assert.True(t, b.Quantity().Value().Equal(decimal.NewFromInt(3)))
}
