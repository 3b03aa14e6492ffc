// Package cmd - discount commands
package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"metered-billing/core/charge"
	"metered-billing/core/formula"
	"metered-billing/core/money"
	"metered-billing/core/price"
	"metered-billing/core/types"
	"metered-billing/core/units"
	"metered-billing/internal/config"
)

type evalOptions struct {
	typ      string
	target   string
	customer string
	usage    string
	sum      string
	at       string
}

var evalOpts evalOptions

// discountCmd groups discount commands
var discountCmd = &cobra.Command{
	Use:   "discount",
	Short: "Work with discount formulas",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var discountEvalCmd = &cobra.Command{
	Use:   "eval <formula>",
	Short: "Evaluate a discount formula against a sample charge",
	Long: `Evaluate a discount formula against a sample charge and print the
resulting discount and the amount it takes off the charge.

Examples:
  billing discount eval 'discount("10%")' --sum "100 USD"
  billing discount eval 'charge.usage > 100 ? "5 USD" : nil' --usage "150 GB" --sum "300 USD"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiscountEval(config.Get(), args[0], evalOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := discountEvalCmd.Flags()
	f.StringVar(&evalOpts.typ, "type", "sample", "charge type")
	f.StringVar(&evalOpts.target, "target", "", "charge target")
	f.StringVar(&evalOpts.customer, "customer", "sample", "charge customer")
	f.StringVar(&evalOpts.usage, "usage", "1 item", "charge usage")
	f.StringVar(&evalOpts.sum, "sum", "", "charge sum (default is 0 in the default currency)")
	f.StringVar(&evalOpts.at, "time", "", "charge time, RFC 3339 (default is now)")

	discountCmd.AddCommand(discountEvalCmd)
}

func runDiscountEval(cfg *config.Config, expression string, opts evalOptions, out io.Writer) error {
	ch, err := sampleCharge(cfg, opts)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	d, ok, err := engine.Evaluate(expression, formula.EnvFor(ch))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "no discount")
		return nil
	}
	amount, err := d.CalculateSum(ch)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "discount: %s\namount:   %s\n", d, amount)
	return nil
}

func sampleCharge(cfg *config.Config, opts evalOptions) (*charge.Charge, error) {
	usage, err := units.Parse(opts.usage)
	if err != nil {
		return nil, err
	}

	sumText := opts.sum
	if sumText == "" {
		sumText = "0 " + cfg.Billing.DefaultCurrency
	}
	sum, err := money.Parse(sumText)
	if err != nil {
		return nil, err
	}

	at := time.Now().UTC()
	if opts.at != "" {
		if at, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", opts.at, err)
		}
	}

	typ := &types.Type{Name: opts.typ}
	var target *types.Target
	if opts.target != "" {
		target = &types.Target{ID: opts.target}
	}
	action := &types.Action{
		ID:       "sample",
		Type:     typ,
		Target:   target,
		Customer: &types.Customer{Login: opts.customer},
		Quantity: usage,
		Time:     at,
	}
	pr := price.New("sample", typ, target, units.New(decimal.Zero, usage.Unit()), money.Zero(sum.Currency()))
	return charge.New(action, pr, usage, sum), nil
}
