package formula

import (
	"time"

	"metered-billing/core/charge"
)

// Env is the binding context a formula is evaluated against. Besides these
// variables, formulas can call the discount helper functions.
type Env struct {
	Charge ChargeVars `expr:"charge"`
}

// ChargeVars describes the charge being discounted.
// Amounts are exposed as floats for comparisons only; discounts are always
// computed with exact decimals.
type ChargeVars struct {
	Type     string    `expr:"type"`
	Target   string    `expr:"target"`
	Customer string    `expr:"customer"`
	Currency string    `expr:"currency"`
	Unit     string    `expr:"unit"`
	Usage    float64   `expr:"usage"`
	Sum      float64   `expr:"sum"`
	Time     time.Time `expr:"time"`
}

// EnvFor builds the binding context for c
func EnvFor(c *charge.Charge) Env {
	return Env{Charge: ChargeVars{
		Type:     c.Type().UniqueID(),
		Target:   c.Target().UniqueID(),
		Customer: c.Customer().UniqueID(),
		Currency: c.Sum().Currency().String(),
		Unit:     c.Usage().Unit().Name(),
		Usage:    c.Usage().Value().InexactFloat64(),
		Sum:      c.Sum().Amount().InexactFloat64(),
		Time:     c.Action().Time,
	}}
}
