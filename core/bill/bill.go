// Package bill - Invoice-ready aggregates of charges
package bill

import (
	"strconv"
	"strings"
	"time"

	"metered-billing/core/charge"
	"metered-billing/core/money"
	"metered-billing/core/plan"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
)

// State is the lifecycle state of a bill
type State string

const (
	// StateFinished marks a bill that will not change anymore
	StateFinished State = "finished"
)

// Bill aggregates charges sharing currency, customer, target, type and time.
// A bill is mutable only while it is being built: its id and charges can be
// set once and its state only moves to finished.
type Bill struct {
	id       string
	typ      *types.Type
	time     time.Time
	sum      money.Money
	quantity units.Quantity
	customer *types.Customer
	target   *types.Target
	plan     *plan.Plan
	charges  []*charge.Charge
	state    State
	comment  string
}

// New creates a bill. target and p may be nil.
func New(id string, typ *types.Type, at time.Time, sum money.Money, quantity units.Quantity,
	customer *types.Customer, target *types.Target, p *plan.Plan, charges []*charge.Charge) *Bill {
	return &Bill{
		id:       id,
		typ:      typ,
		time:     at,
		sum:      sum,
		quantity: quantity,
		customer: customer,
		target:   target,
		plan:     p,
		charges:  charges,
	}
}

// FromCharge starts a bill holding a single charge billed under p (may be nil)
func FromCharge(c *charge.Charge, p *plan.Plan) *Bill {
	return New("", c.Type(), c.Action().Time, c.Sum(), c.Usage(),
		c.Customer(), c.Target(), p, []*charge.Charge{c})
}

// UniqueString is the display form of the aggregation key: currency,
// customer, target (empty when none), type and RFC 3339 time joined with "-".
// Ids may contain "-", so grouping compares the parts instead.
func (b *Bill) UniqueString() string {
	k := b.groupKey()
	return strings.Join([]string{string(k.currency), k.customer, k.target, k.typ, k.at}, "-")
}

// groupKey holds the attributes charges must share to join one bill
type groupKey struct {
	currency  money.Currency
	customer  string
	target    string
	hasTarget bool
	typ       string
	at        string
}

func (b *Bill) groupKey() groupKey {
	return groupKey{
		currency:  b.sum.Currency(),
		customer:  b.customer.UniqueID(),
		target:    b.target.UniqueID(),
		hasTarget: b.target != nil,
		typ:       b.typ.UniqueID(),
		at:        b.time.Format(time.RFC3339),
	}
}

// canonical is an unambiguous text form of the key
func (k groupKey) canonical() string {
	parts := []string{string(k.currency), k.customer, k.target, strconv.FormatBool(k.hasTarget), k.typ, k.at}
	for i, part := range parts {
		parts[i] = strconv.Quote(part)
	}
	return strings.Join(parts, ",")
}

// ID returns the bill id ("" until assigned)
func (b *Bill) ID() string { return b.id }

// SetID assigns the id once. Setting the same id again is a no-op.
func (b *Bill) SetID(id string) error {
	if b.id == id {
		return nil
	}
	if b.id != "" {
		return errors.Invariant("cannot reassign bill id").
			WithContext("id", b.id).
			WithContext("new_id", id)
	}
	b.id = id
	return nil
}

// Type returns the billed type
func (b *Bill) Type() *types.Type { return b.typ }

// Time returns the billing time
func (b *Bill) Time() time.Time { return b.time }

// Sum returns the total
func (b *Bill) Sum() money.Money { return b.sum }

// Quantity returns the total quantity
func (b *Bill) Quantity() units.Quantity { return b.quantity }

// SetQuantity replaces the total quantity
func (b *Bill) SetQuantity(q units.Quantity) { b.quantity = q }

// Customer returns the billed customer
func (b *Bill) Customer() *types.Customer { return b.customer }

// Target returns the billed target, or nil
func (b *Bill) Target() *types.Target { return b.target }

// Plan returns the plan the bill was calculated with, or nil
func (b *Bill) Plan() *plan.Plan { return b.plan }

// HasCharges reports whether the bill holds any charge
func (b *Bill) HasCharges() bool { return len(b.charges) > 0 }

// Charges returns the contributing charges in order
func (b *Bill) Charges() []*charge.Charge { return b.charges }

// SetCharges assigns the charges once the bill holds none.
func (b *Bill) SetCharges(charges []*charge.Charge) error {
	if b.HasCharges() {
		return errors.Invariant("cannot reassign charges for bill").WithContext("id", b.id)
	}
	b.charges = charges
	return nil
}

// State returns the bill state ("" while open)
func (b *Bill) State() State { return b.state }

// SetFinished marks the bill finished
func (b *Bill) SetFinished() { b.state = StateFinished }

// IsFinished reports whether the bill is finished
func (b *Bill) IsFinished() bool { return b.state == StateFinished }

// Comment returns the bill comment
func (b *Bill) Comment() string { return b.comment }

// SetComment sets the bill comment
func (b *Bill) SetComment(comment string) { b.comment = comment }

// CalculatePrice returns the average price per unit, or the sum when the
// quantity is zero.
func (b *Bill) CalculatePrice() (money.Money, error) {
	if b.quantity.Value().IsZero() {
		return b.sum, nil
	}
	return b.sum.Divide(b.quantity.Value())
}
