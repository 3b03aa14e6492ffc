// Package types - Usage events
package types

import (
	"time"

	"metered-billing/core/units"
)

// Action is a single usage event to be billed.
// Actions are produced upstream and never modified.
type Action struct {
	// ID identifies the action (may be empty)
	ID string `json:"id,omitempty"`

	// Type is what was consumed
	Type *Type `json:"type"`

	// Target is what it was consumed on
	Target *Target `json:"target"`

	// Customer is who consumed it
	Customer *Customer `json:"customer"`

	// Quantity is the amount consumed
	Quantity units.Quantity `json:"quantity"`

	// Time is when the usage happened
	Time time.Time `json:"time"`
}

// Order is a set of actions placed by one customer
type Order struct {
	// ID identifies the order (may be empty)
	ID string `json:"id,omitempty"`

	// Customer placed the order
	Customer *Customer `json:"customer"`

	// Actions are billed in order
	Actions []*Action `json:"actions"`
}

// NewOrder creates an order
func NewOrder(id string, customer *Customer, actions []*Action) *Order {
	return &Order{ID: id, Customer: customer, Actions: actions}
}
