// Package calculator turns usage actions into charges against a plan.
package calculator

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"metered-billing/core/charge"
	"metered-billing/core/formula"
	"metered-billing/core/plan"
	"metered-billing/core/types"
	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

// Calculator prices actions. It holds no mutable state of its own; the
// formula engine it shares is safe for concurrent use.
type Calculator struct {
	engine *formula.Engine
	logger *zap.Logger
}

// New creates a calculator. engine may be nil when no plan carries a formula;
// calculating a plan with a formula then fails.
func New(engine *formula.Engine, logger *zap.Logger) *Calculator {
	return &Calculator{engine: engine, logger: logging.OrNop(logger)}
}

// Calculate returns one charge per price of p matching the action's type and
// target exactly. An action no price matches yields no charges and no error.
// Prices that fully cover the action's quantity yield no charge.
func (c *Calculator) Calculate(action *types.Action, p *plan.Plan) ([]*charge.Charge, error) {
	matches := p.MatchingPrices(action)
	if len(matches) == 0 {
		c.logger.Debug("action not billable by plan",
			zap.String("action", action.ID),
			zap.String("type", action.Type.UniqueID()),
			zap.String("target", action.Target.UniqueID()),
			zap.String("plan", p.Name))
		return nil, nil
	}

	var rule *formula.Rule
	if p.HasFormula() {
		if c.engine == nil {
			return nil, errors.Newf(errors.TypeCapability, "plan %s has a formula but the calculator has no formula engine", p.Name)
		}
		var err error
		if rule, err = c.engine.Build(p.Formula); err != nil {
			return nil, err
		}
	}

	charges := make([]*charge.Charge, 0, len(matches))
	for _, pr := range matches {
		usage, sum, owed, err := pr.CalculateSum(action.Quantity)
		if err != nil {
			return nil, err
		}
		if !owed {
			continue
		}
		ch := charge.New(action, pr, usage, sum)

		if rule != nil {
			if ch, err = applyDiscount(rule, ch); err != nil {
				return nil, err
			}
		}

		c.logger.Debug("charge calculated",
			zap.String("action", action.ID),
			zap.String("price", pr.ID),
			zap.Stringer("usage", ch.Usage()),
			zap.Stringer("sum", ch.Sum()))
		charges = append(charges, ch)
	}
	return charges, nil
}

func applyDiscount(rule *formula.Rule, ch *charge.Charge) (*charge.Charge, error) {
	d, ok, err := rule.Evaluate(formula.EnvFor(ch))
	if err != nil || !ok {
		return ch, err
	}
	amount, err := d.CalculateSum(ch)
	if err != nil {
		return nil, err
	}
	return ch.WithDiscount(amount)
}

// CalculateOrder calculates every action of order in turn and stops at the
// first failure.
func (c *Calculator) CalculateOrder(order *types.Order, p *plan.Plan) ([]*charge.Charge, error) {
	var all []*charge.Charge
	for _, action := range order.Actions {
		charges, err := c.Calculate(action, p)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", action.ID, err)
		}
		all = append(all, charges...)
	}
	return all, nil
}

// Result is the outcome of one action in a batch
type Result struct {
	Action  *types.Action
	Charges []*charge.Charge
	Err     error
}

// CalculateBatch calculates independent actions with at most concurrency
// workers. Results are returned in input order; the returned error combines
// every per-action failure so callers can decide whether to skip or abort.
func (c *Calculator) CalculateBatch(ctx context.Context, actions []*types.Action, p *plan.Plan, concurrency int) ([]Result, error) {
	results := make([]Result, len(actions))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, action := range actions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			charges, err := c.Calculate(action, p)
			results[i] = Result{Action: action, Charges: charges, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs error
	for _, r := range results {
		if r.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("action %s: %w", r.Action.ID, r.Err))
		}
	}
	return results, errs
}

// Charges flattens the charges of successful results in order
func Charges(results []Result) []*charge.Charge {
	var out []*charge.Charge
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Charges...)
		}
	}
	return out
}
