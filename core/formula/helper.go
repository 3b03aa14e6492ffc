package formula

import (
	"metered-billing/core/discount"
	"metered-billing/internal/errors"
)

// Helper is the discount helper bound into every formula as:
//
//	discount(v)        build a discount from a literal or number
//	add(a, b)          sum two discounts of the same classification
//	multiply(d, f)     scale a discount by a number
//	best(d1, d2, ...)  the largest discount
//	least(d1, d2, ...) the smallest discount
type Helper struct{}

// Functions returns the helper as formula functions
func (h *Helper) Functions() []Function {
	return []Function{
		{Name: "discount", Fn: h.discount},
		{Name: "add", Fn: h.add},
		{Name: "multiply", Fn: h.multiply},
		{Name: "best", Fn: func(args ...any) (any, error) { return h.pick(args, 1) }},
		{Name: "least", Fn: func(args ...any) (any, error) { return h.pick(args, -1) }},
	}
}

func (h *Helper) discount(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, errors.Semantics("discount() takes 1 argument, got %d", len(args))
	}
	return discount.New(args[0])
}

func (h *Helper) add(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, errors.Semantics("add() takes 2 arguments, got %d", len(args))
	}
	d, err := discount.New(args[0])
	if err != nil {
		return nil, err
	}
	return d.Add(args[1])
}

func (h *Helper) multiply(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, errors.Semantics("multiply() takes 2 arguments, got %d", len(args))
	}
	d, err := discount.New(args[0])
	if err != nil {
		return nil, err
	}
	return d.Multiply(args[1])
}

// pick returns the discount whose comparison against the others has sign.
func (h *Helper) pick(args []any, sign int) (any, error) {
	if len(args) == 0 {
		return nil, errors.Semantics("best() and least() need at least 1 argument")
	}
	chosen, err := discount.New(args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		d, err := discount.New(arg)
		if err != nil {
			return nil, err
		}
		c, err := d.Compare(chosen)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			chosen = d
		}
	}
	return chosen, nil
}
