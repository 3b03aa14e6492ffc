// Package hcl loads billing plans from HCL files.
//
// A file holds one or more plan blocks:
//
//	plan "certificates" {
//	  seller  = "reseller"
//	  formula = "charge.type == \"certificate_purchase\" ? discount(\"10%\") : nil"
//
//	  price "p1" {
//	    type       = "certificate_purchase"
//	    target     = "ssl-basic"
//	    prepaid    = "0 year"
//	    unit_price = "15 ${currency}"
//	  }
//	}
//
// Plan variables (the default currency and any configured extras) are
// available for interpolation.
package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/samber/lo"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"metered-billing/core/money"
	"metered-billing/core/plan"
	"metered-billing/core/price"
	"metered-billing/core/registry"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

type fileSchema struct {
	Plans []planBlock `hcl:"plan,block"`
}

type planBlock struct {
	Name    string       `hcl:"name,label"`
	ID      string       `hcl:"id,optional"`
	Seller  string       `hcl:"seller,optional"`
	Formula string       `hcl:"formula,optional"`
	Prices  []priceBlock `hcl:"price,block"`
}

type priceBlock struct {
	ID         string `hcl:"id,label"`
	Type       string `hcl:"type"`
	TypeID     string `hcl:"type_id,optional"`
	Target     string `hcl:"target,optional"`
	TargetKind string `hcl:"target_kind,optional"`
	Prepaid    string `hcl:"prepaid"`
	UnitPrice  string `hcl:"unit_price"`
}

// Loader decodes plan files. Types, targets and sellers are resolved
// through the registry so they are shared with the actions being billed.
type Loader struct {
	registry  *registry.Registry
	variables map[string]cty.Value
	logger    *zap.Logger
}

// NewLoader creates a loader exposing vars to plan files
func NewLoader(reg *registry.Registry, vars map[string]string, logger *zap.Logger) *Loader {
	return &Loader{
		registry: reg,
		variables: lo.MapValues(vars, func(v string, _ string) cty.Value {
			return cty.StringVal(v)
		}),
		logger: logging.OrNop(logger),
	}
}

// LoadFile reads and decodes the plans in path
func (l *Loader) LoadFile(path string) ([]*plan.Plan, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read plan file", err).
			WithContext("path", path)
	}
	return l.Parse(src, path)
}

// Parse decodes the plans in src. filename is only used in diagnostics.
func (l *Loader) Parse(src []byte, filename string) ([]*plan.Plan, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid plan file "+filename, diags)
	}

	var schema fileSchema
	ctx := &hcl.EvalContext{Variables: l.variables}
	if diags := gohcl.DecodeBody(file.Body, ctx, &schema); diags.HasErrors() {
		return nil, errors.Parsing("invalid plan file "+filename, diags)
	}

	plans := make([]*plan.Plan, 0, len(schema.Plans))
	for _, block := range schema.Plans {
		p, err := l.buildPlan(block)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeInput, err, "plan %q in %s", block.Name, filename)
		}
		l.logger.Debug("plan loaded",
			zap.String("plan", p.Name),
			zap.Int("prices", len(p.Prices)),
			zap.Bool("formula", p.HasFormula()))
		plans = append(plans, p)
	}
	return plans, nil
}

func (l *Loader) buildPlan(block planBlock) (*plan.Plan, error) {
	if dup := lo.FindDuplicatesBy(block.Prices, func(b priceBlock) string { return b.ID }); len(dup) > 0 {
		return nil, fmt.Errorf("duplicate price id %q", dup[0].ID)
	}

	prices := make([]*price.Price, 0, len(block.Prices))
	for _, pb := range block.Prices {
		pr, err := l.buildPrice(pb)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", pb.ID, err)
		}
		prices = append(prices, pr)
	}

	p := plan.New(block.ID, block.Name, nil, prices)
	if block.Seller != "" {
		p.Seller = l.registry.Customer(block.Seller, "")
	}
	p.Formula = block.Formula
	return p, nil
}

func (l *Loader) buildPrice(pb priceBlock) (*price.Price, error) {
	prepaid, err := units.Parse(pb.Prepaid)
	if err != nil {
		return nil, fmt.Errorf("prepaid: %w", err)
	}
	unitPrice, err := money.Parse(pb.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("unit_price: %w", err)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit_price %s is negative", unitPrice)
	}

	// A price without target bills actions that carry none.
	var target *types.Target
	if pb.Target != "" {
		target = l.registry.Target(pb.Target, "", pb.TargetKind)
	}
	return price.New(pb.ID, l.registry.Type(pb.TypeID, pb.Type), target, prepaid, unitPrice), nil
}

// Find returns the plan named name
func Find(plans []*plan.Plan, name string) (*plan.Plan, error) {
	p, ok := lo.Find(plans, func(p *plan.Plan) bool { return p.Name == name || (p.ID != "" && p.ID == name) })
	if !ok {
		return nil, errors.NotFound("plan", name)
	}
	return p, nil
}

// ErrNoPlans reports a plan file without plan blocks
func ErrNoPlans(path string) error {
	return errors.Input("no plan found in " + path)
}
