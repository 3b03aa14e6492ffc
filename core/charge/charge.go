// Package charge - Money and quantity owed for one action against one price
package charge

import (
	"metered-billing/core/money"
	"metered-billing/core/price"
	"metered-billing/core/types"
	"metered-billing/core/units"
)

// Charge is the result of pricing one action with one matched price.
// Charges are immutable once created.
type Charge struct {
	action   *types.Action
	price    *price.Price
	usage    units.Quantity
	sum      money.Money
	discount *money.Money
}

// New creates a charge without a discount
func New(action *types.Action, pr *price.Price, usage units.Quantity, sum money.Money) *Charge {
	return &Charge{action: action, price: pr, usage: usage, sum: sum}
}

// WithDiscount returns a copy of c whose sum is reduced by amount.
// The reduction is capped at the charge sum.
func (c *Charge) WithDiscount(amount money.Money) (*Charge, error) {
	applied, err := amount.Min(c.sum)
	if err != nil {
		return nil, err
	}
	if applied.IsNegative() {
		applied = money.Zero(c.sum.Currency())
	}
	sum, err := c.sum.Subtract(applied)
	if err != nil {
		return nil, err
	}
	out := *c
	out.sum = sum
	out.discount = &applied
	return &out, nil
}

// Action returns the billed action
func (c *Charge) Action() *types.Action { return c.action }

// Price returns the price used
func (c *Charge) Price() *price.Price { return c.price }

// Type returns the billed type
func (c *Charge) Type() *types.Type { return c.price.Type }

// Target returns the billed target
func (c *Charge) Target() *types.Target { return c.action.Target }

// Customer returns the billed customer
func (c *Charge) Customer() *types.Customer { return c.action.Customer }

// Usage returns the billable usage in the price unit
func (c *Charge) Usage() units.Quantity { return c.usage }

// Sum returns the amount owed after discount
func (c *Charge) Sum() money.Money { return c.sum }

// Discount returns the discount amount that was subtracted, if any
func (c *Charge) Discount() (money.Money, bool) {
	if c.discount == nil {
		return money.Money{}, false
	}
	return *c.discount, true
}
