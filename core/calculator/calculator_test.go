package calculator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"metered-billing/core/formula"
	"metered-billing/core/money"
	"metered-billing/core/plan"
	"metered-billing/core/price"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
)

var (
	purchase = &types.Type{ID: "t1", Name: "certificate_purchase"}
	renewal  = &types.Type{ID: "t2", Name: "certificate_renewal"}
	basic    = &types.Target{ID: "ssl-basic", Kind: "certificate"}
	wildcard = &types.Target{ID: "ssl-wildcard", Kind: "certificate"}
	customer = &types.Customer{Login: "acme"}
	billedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func certificatePlan() *plan.Plan {
	return plan.New("plan-1", "certificates", nil, []*price.Price{
		price.New("p1", purchase, basic, units.Years(0), money.FromInt(10, money.USD)),
		price.New("p2", purchase, wildcard, units.Years(0), money.FromInt(50, money.USD)),
		price.New("p3", renewal, basic, units.Years(0), money.FromInt(8, money.USD)),
	})
}

func action(id string, typ *types.Type, target *types.Target, q units.Quantity) *types.Action {
	return &types.Action{ID: id, Type: typ, Target: target, Customer: customer, Quantity: q, Time: billedAt}
}

func newCalculator(t *testing.T) *Calculator {
	t.Helper()
	engine, err := formula.NewEngine()
	require.NoError(t, err)
	return New(engine, nil)
}

func TestCalculateConvertsUsageToPriceUnit(t *testing.T) {
	c := newCalculator(t)
	p := certificatePlan()

	for _, years := range []int64{1, 2, 3} {
		a := action("a", purchase, wildcard, units.Months(years*12))
		charges, err := c.Calculate(a, p)
		require.NoError(t, err)
		require.Len(t, charges, 1)

		ch := charges[0]
		assert.Same(t, a, ch.Action())
		assert.Same(t, purchase, ch.Type())
		assert.True(t, ch.Usage().Equals(units.Years(years)), ch.Usage().String())
		assert.True(t, money.FromInt(50*years, money.USD).Equals(ch.Sum()), ch.Sum().String())
	}
}

func TestCalculateUnmatchedActionIsNotAnError(t *testing.T) {
	charges, err := newCalculator(t).Calculate(action("a", renewal, wildcard, units.Years(1)), certificatePlan())
	require.NoError(t, err)
	assert.Empty(t, charges)
}

func TestCalculateFullyPrepaidYieldsNoCharge(t *testing.T) {
	traf := &types.Type{Name: "server_traf"}
	srv := &types.Target{ID: "srv-1"}
	p := plan.New("", "hosting", nil, []*price.Price{
		price.New("p", traf, srv, units.Gigabytes(10), money.FromInt(15, money.USD)),
	})

	charges, err := newCalculator(t).Calculate(action("a", traf, srv, units.Bytes(1)), p)
	require.NoError(t, err)
	assert.Empty(t, charges)
}

func TestCalculateEachMatchIndependently(t *testing.T) {
	traf := &types.Type{Name: "server_traf"}
	srv := &types.Target{ID: "srv-1"}
	p := plan.New("", "hosting", nil, []*price.Price{
		price.New("base", traf, srv, units.Gigabytes(0), money.FromInt(1, money.USD)),
		price.New("overage", traf, srv, units.Gigabytes(100), money.FromInt(2, money.USD)),
	})

	charges, err := newCalculator(t).Calculate(action("a", traf, srv, units.Gigabytes(150)), p)
	require.NoError(t, err)
	require.Len(t, charges, 2)
	assert.True(t, money.FromInt(150, money.USD).Equals(charges[0].Sum()))
	assert.True(t, money.FromInt(100, money.USD).Equals(charges[1].Sum()))
}

func TestCalculateIsDeterministic(t *testing.T) {
	c := newCalculator(t)
	p := certificatePlan()
	p.Formula = `discount("10%")`
	a := action("a", purchase, basic, units.Years(3))

	first, err := c.Calculate(a, p)
	require.NoError(t, err)
	second, err := c.Calculate(a, p)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.True(t, first[0].Sum().Equals(second[0].Sum()))
}

func TestCalculateAppliesRelativeDiscount(t *testing.T) {
	p := certificatePlan()
	p.Formula = `charge.type == "t1" ? discount("10%") : nil`

	charges, err := newCalculator(t).Calculate(action("a", purchase, wildcard, units.Years(2)), p)
	require.NoError(t, err)
	require.Len(t, charges, 1)

	assert.True(t, money.FromInt(90, money.USD).Equals(charges[0].Sum()), charges[0].Sum().String())
	applied, ok := charges[0].Discount()
	require.True(t, ok)
	assert.True(t, money.FromInt(10, money.USD).Equals(applied))

	charges, err = newCalculator(t).Calculate(action("b", renewal, basic, units.Years(2)), p)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	_, ok = charges[0].Discount()
	assert.False(t, ok)
}

func TestCalculateAppliesAbsoluteDiscountPerUnit(t *testing.T) {
	p := certificatePlan()
	p.Formula = `discount("5 USD")`

	charges, err := newCalculator(t).Calculate(action("a", purchase, wildcard, units.Years(3)), p)
	require.NoError(t, err)
	require.Len(t, charges, 1)

	// 3 years x 50 USD, minus 5 USD x 3 years
	assert.True(t, money.FromInt(135, money.USD).Equals(charges[0].Sum()), charges[0].Sum().String())
}

func TestCalculateFormulaErrorAbortsAction(t *testing.T) {
	p := certificatePlan()
	p.Formula = `discount("lots")`

	_, err := newCalculator(t).Calculate(action("a", purchase, basic, units.Years(1)), p)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeSemantics))

	p.Formula = `unknown_name`
	_, err = newCalculator(t).Calculate(action("a", purchase, basic, units.Years(1)), p)
	assert.True(t, errors.IsType(err, errors.TypeSemantics))
}

func TestCalculateFormulaWithoutEngine(t *testing.T) {
	p := certificatePlan()
	p.Formula = `discount("10%")`

	_, err := New(nil, nil).Calculate(action("a", purchase, basic, units.Years(1)), p)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCapability))
}

func TestCalculateOrder(t *testing.T) {
	order := types.NewOrder("o1", customer, []*types.Action{
		action("a1", purchase, basic, units.Years(1)),
		action("a2", renewal, wildcard, units.Years(1)),
		action("a3", renewal, basic, units.Years(2)),
	})

	charges, err := newCalculator(t).CalculateOrder(order, certificatePlan())
	require.NoError(t, err)
	require.Len(t, charges, 2)
	assert.Equal(t, "a1", charges[0].Action().ID)
	assert.Equal(t, "a3", charges[1].Action().ID)
}

func TestCalculateBatchKeepsOrderAndCollectsErrors(t *testing.T) {
	p := certificatePlan()
	p.Formula = `charge.target == "ssl-wildcard" ? discount("bad") : nil`

	var actions []*types.Action
	for i := 0; i < 20; i++ {
		target := basic
		if i%5 == 0 {
			target = wildcard
		}
		actions = append(actions, action(fmt.Sprintf("a%d", i), purchase, target, units.Years(1)))
	}

	results, err := newCalculator(t).CalculateBatch(context.Background(), actions, p, 4)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)

	require.Len(t, results, 20)
	for i, r := range results {
		assert.Same(t, actions[i], r.Action)
		if i%5 == 0 {
			assert.Error(t, r.Err)
		} else {
			require.NoError(t, r.Err)
			require.Len(t, r.Charges, 1)
		}
	}

	charges := Charges(results)
	assert.Len(t, charges, 16)
	total := decimal.Zero
	for _, ch := range charges {
		total = total.Add(ch.Sum().Amount())
	}
	assert.True(t, total.Equal(decimal.NewFromInt(160)))
}
