// Package plan - Tariff plans: ordered prices plus an optional discount formula
package plan

import (
	"github.com/samber/lo"

	"metered-billing/core/price"
	"metered-billing/core/types"
)

// Plan is a set of prices for various (type, target) pairs.
// Plans are authored once and only read during calculation.
type Plan struct {
	// ID identifies the plan
	ID string `json:"id,omitempty"`

	// Name is the plan name
	Name string `json:"name"`

	// Seller is the reseller owning the plan
	Seller *types.Customer `json:"seller,omitempty"`

	// Prices are evaluated in order
	Prices []*price.Price `json:"prices"`

	// Formula selects the discount applied to every charge ("" for none)
	Formula string `json:"formula,omitempty"`
}

// New creates a plan
func New(id, name string, seller *types.Customer, prices []*price.Price) *Plan {
	return &Plan{ID: id, Name: name, Seller: seller, Prices: prices}
}

// HasFormula reports whether the plan carries a discount formula
func (p *Plan) HasFormula() bool {
	return p.Formula != ""
}

// MatchingPrices returns the prices whose type and target exactly equal the
// action's, in plan order.
func (p *Plan) MatchingPrices(action *types.Action) []*price.Price {
	return lo.Filter(p.Prices, func(pr *price.Price, _ int) bool {
		return pr.Matches(action)
	})
}

// Types returns the distinct types priced by the plan, in plan order.
func (p *Plan) Types() []*types.Type {
	return lo.UniqBy(lo.Map(p.Prices, func(pr *price.Price, _ int) *types.Type {
		return pr.Type
	}), (*types.Type).UniqueID)
}

// Targets returns the distinct targets priced by the plan, in plan order.
func (p *Plan) Targets() []*types.Target {
	return lo.UniqBy(lo.Map(p.Prices, func(pr *price.Price, _ int) *types.Target {
		return pr.Target
	}), (*types.Target).UniqueID)
}
