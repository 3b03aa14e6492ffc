package bill

import (
	"fmt"

	"go.uber.org/zap"

	"metered-billing/core/charge"
	"metered-billing/core/plan"
	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

// Aggregator groups charges into bills. It holds no state between calls.
type Aggregator struct {
	plan   *plan.Plan
	logger *zap.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrNop(logger)}
}

// WithPlan returns an aggregator that records p on every bill it builds
func (a *Aggregator) WithPlan(p *plan.Plan) *Aggregator {
	out := *a
	out.plan = p
	return &out
}

// Aggregate returns one bill per distinct key, in order of first occurrence.
// Sums and quantities of charges sharing a key are added and the charges are
// kept in input order. Any summation failure fails the whole call.
func (a *Aggregator) Aggregate(charges []*charge.Charge) ([]*Bill, error) {
	var bills []*Bill
	byKey := make(map[groupKey]*Bill)

	for i, c := range charges {
		b := FromCharge(c, a.plan)
		key := b.groupKey()

		existing, ok := byKey[key]
		if !ok {
			byKey[key] = b
			bills = append(bills, b)
			continue
		}
		if err := existing.merge(c); err != nil {
			return nil, errors.Internal(fmt.Sprintf("charge %d cannot join bill %s", i, b.UniqueString()), err)
		}
	}

	a.logger.Debug("charges aggregated",
		zap.Int("charges", len(charges)),
		zap.Int("bills", len(bills)))
	return bills, nil
}

func (b *Bill) merge(c *charge.Charge) error {
	sum, err := b.sum.Add(c.Sum())
	if err != nil {
		return err
	}
	quantity, err := b.quantity.Add(c.Usage())
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	b.sum = sum
	b.quantity = quantity
	b.charges = append(b.charges, c)
	return nil
}
