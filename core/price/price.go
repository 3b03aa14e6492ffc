// Package price - Single-tier prices: a prepaid allotment plus a unit rate
package price

import (
	"fmt"

	"github.com/shopspring/decimal"

	"metered-billing/core/money"
	"metered-billing/core/types"
	"metered-billing/core/units"
)

// Price is one pricing tier for a (type, target) pair.
// The unit of measure is the prepaid quantity's unit; the unit price is the
// cost of one such unit.
type Price struct {
	// ID identifies the price within its plan
	ID string `json:"id,omitempty"`

	// Type is what is billed
	Type *types.Type `json:"type"`

	// Target is what it is billed on
	Target *types.Target `json:"target"`

	// Prepaid is the allotment included for free
	Prepaid units.Quantity `json:"prepaid"`

	// UnitPrice is the price of one unit beyond the allotment
	UnitPrice money.Money `json:"unit_price"`
}

// New creates a price
func New(id string, typ *types.Type, target *types.Target, prepaid units.Quantity, unitPrice money.Money) *Price {
	return &Price{
		ID:        id,
		Type:      typ,
		Target:    target,
		Prepaid:   prepaid,
		UnitPrice: unitPrice,
	}
}

// Unit returns the price's unit of measure
func (p *Price) Unit() units.Unit {
	return p.Prepaid.Unit()
}

// Matches reports an exact (type, target) match with the action.
func (p *Price) Matches(action *types.Action) bool {
	return p.Type.Equals(action.Type) && p.Target.Equals(action.Target)
}

// CalculateUsage returns the billable usage in the price unit, and false when
// quantity is fully covered by the prepaid allotment.
func (p *Price) CalculateUsage(quantity units.Quantity) (units.Quantity, bool, error) {
	usage, err := quantity.Subtract(p.Prepaid)
	if err != nil {
		return units.Quantity{}, false, fmt.Errorf("price %s: %w", p.ID, err)
	}
	if !usage.IsPositive() {
		return units.Quantity{}, false, nil
	}
	usage, err = usage.Convert(p.Unit())
	if err != nil {
		return units.Quantity{}, false, fmt.Errorf("price %s: %w", p.ID, err)
	}
	return usage, true, nil
}

// CalculatePrice returns the money owed for quantity. Billable usage up to and
// including one price unit costs the flat unit price; beyond that the unit
// price is charged per unit of usage.
func (p *Price) CalculatePrice(quantity units.Quantity) (money.Money, error) {
	usage, billable, err := p.CalculateUsage(quantity)
	if err != nil {
		return money.Money{}, err
	}
	return p.priceFor(usage, billable), nil
}

func (p *Price) priceFor(usage units.Quantity, billable bool) money.Money {
	if !billable || usage.Value().LessThanOrEqual(decimal.NewFromInt(1)) {
		return p.UnitPrice
	}
	return p.UnitPrice.Multiply(usage.Value())
}

// CalculateSum returns the billable usage and its cost, or false when the
// quantity is fully prepaid and nothing is owed.
func (p *Price) CalculateSum(quantity units.Quantity) (units.Quantity, money.Money, bool, error) {
	usage, billable, err := p.CalculateUsage(quantity)
	if err != nil || !billable {
		return units.Quantity{}, money.Money{}, false, err
	}
	return usage, p.priceFor(usage, true), true, nil
}
