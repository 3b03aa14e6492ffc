// Package formula evaluates plan discount formulas.
//
// A formula is an expression over the charge being billed that yields a
// discount, or nil for none:
//
//	charge.type == "server_traf" ? discount("10%") : nil
//	best(discount("5%"), charge.usage > 100 ? discount("8%") : discount("0%"))
//	charge.time >= date("2024-01-01") ? discount("1 USD") : nil
package formula

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"metered-billing/core/discount"
	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

// DefaultCacheSize is the default number of compiled rules kept per engine
const DefaultCacheSize = 128

// Engine compiles and evaluates formulas. The evaluator, the binding context
// and the discount helper are wired once in NewEngine and shared by every
// evaluation; compiled rules are cached. An Engine is safe for concurrent use.
type Engine struct {
	evaluator Evaluator
	helper    *Helper
	functions []Function
	rules     *lru.Cache[string, *Rule]
	logger    *zap.Logger
}

type engineOptions struct {
	evaluator Evaluator
	cacheSize int
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*engineOptions)

// WithEvaluator replaces the expression evaluator
func WithEvaluator(ev Evaluator) Option {
	return func(o *engineOptions) { o.evaluator = ev }
}

// WithCacheSize sets the compiled-rule cache size
func WithCacheSize(n int) Option {
	return func(o *engineOptions) { o.cacheSize = n }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// NewEngine wires an engine. It fails with a capability error when no
// expression evaluator is available.
func NewEngine(opts ...Option) (*Engine, error) {
	o := engineOptions{
		evaluator: ExprEvaluator{},
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.evaluator == nil {
		return nil, errors.Capability("formula engine requires an expression evaluator")
	}

	rules, err := lru.New[string, *Rule](o.cacheSize)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid formula cache size", err)
	}

	helper := &Helper{}
	return &Engine{
		evaluator: o.evaluator,
		helper:    helper,
		functions: helper.Functions(),
		rules:     rules,
		logger:    logging.OrNop(o.logger),
	}, nil
}

// Build compiles formula, reusing a previously compiled rule when possible.
func (e *Engine) Build(formula string) (*Rule, error) {
	if rule, ok := e.rules.Get(formula); ok {
		return rule, nil
	}

	program, err := e.evaluator.Compile(formula, e.functions)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeSemantics, err, "invalid formula %q", formula)
	}
	rule := &Rule{formula: formula, program: program}
	e.rules.Add(formula, rule)
	e.logger.Debug("formula compiled", zap.String("formula", formula))
	return rule, nil
}

// Evaluate builds formula and evaluates it against env.
func (e *Engine) Evaluate(formula string, env Env) (discount.Discount, bool, error) {
	rule, err := e.Build(formula)
	if err != nil {
		return discount.Discount{}, false, err
	}
	return rule.Evaluate(env)
}

// Rule is a compiled formula
type Rule struct {
	formula string
	program Program
}

// Formula returns the source text
func (r *Rule) Formula() string {
	return r.formula
}

// Evaluate runs the rule. It returns false when the formula yields nil.
// Non-discount results are converted with discount.New.
func (r *Rule) Evaluate(env Env) (discount.Discount, bool, error) {
	out, err := r.program.Run(env)
	if err != nil {
		return discount.Discount{}, false, errors.Wrapf(errors.TypeSemantics, err, "formula %q failed", r.formula)
	}
	if out == nil {
		return discount.Discount{}, false, nil
	}
	d, err := discount.New(out)
	if err != nil {
		return discount.Discount{}, false, errors.Wrapf(errors.TypeSemantics, err, "formula %q yielded %v", r.formula, out)
	}
	return d, true, nil
}
