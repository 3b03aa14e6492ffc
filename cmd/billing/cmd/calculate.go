// Package cmd - calculate command
package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"metered-billing/adapters/actions"
	"metered-billing/adapters/plan/hcl"
	"metered-billing/core/bill"
	"metered-billing/core/calculator"
	"metered-billing/core/formula"
	"metered-billing/core/output"
	"metered-billing/core/plan"
	"metered-billing/core/registry"
	"metered-billing/internal/config"
	"metered-billing/internal/logging"
)

type calculateOptions struct {
	planFile    string
	planName    string
	actionsFile string
	format      string
	assignIDs   bool
	stableIDs   bool
	skipErrors  bool
	showCharges bool
	noColor     bool
}

var calcOpts calculateOptions

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate bills for a set of actions",
	Long: `Price every action against a plan and aggregate the charges into bills.

Bills group charges sharing currency, customer, target, type and time.

Examples:
  billing calculate --plan plans.hcl --actions actions.json
  billing calculate --plan plans.hcl --name certificates --actions actions.json
  billing calculate --plan plans.hcl --actions actions.json --skip-errors --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		opts := calcOpts
		if !cmd.Flags().Changed("format") {
			opts.format = cfg.Output.DefaultFormat
		}
		if !cmd.Flags().Changed("show-charges") {
			opts.showCharges = cfg.Output.ShowCharges
		}
		opts.skipErrors = opts.skipErrors || cfg.Billing.SkipErrors
		return runCalculate(cmd.Context(), cfg, opts, cmd.OutOrStdout())
	},
}

func init() {
	f := calculateCmd.Flags()
	f.StringVarP(&calcOpts.planFile, "plan", "p", "", "HCL file holding the plan")
	f.StringVarP(&calcOpts.planName, "name", "n", "", "plan name or id (default is the first plan in the file)")
	f.StringVarP(&calcOpts.actionsFile, "actions", "a", "", "JSON file holding the actions")
	f.StringVarP(&calcOpts.format, "format", "f", "cli", "output format (cli, json)")
	f.BoolVar(&calcOpts.assignIDs, "assign-ids", false, "assign an id to every bill")
	f.BoolVar(&calcOpts.stableIDs, "stable-ids", false, "derive bill ids from the bill key instead of random UUIDs")
	f.BoolVar(&calcOpts.skipErrors, "skip-errors", false, "skip actions that cannot be calculated instead of failing")
	f.BoolVar(&calcOpts.showCharges, "show-charges", true, "list the charges of every bill")
	f.BoolVar(&calcOpts.noColor, "no-color", false, "disable colored output")
	_ = calculateCmd.MarkFlagRequired("plan")
	_ = calculateCmd.MarkFlagRequired("actions")
}

func runCalculate(ctx context.Context, cfg *config.Config, opts calculateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Named("calculate")
	reg := registry.New()

	p, err := loadPlan(reg, cfg, opts.planFile, opts.planName)
	if err != nil {
		return err
	}
	acts, err := actions.NewLoader(reg, logging.Named("actions")).LoadFile(opts.actionsFile)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	calc := calculator.New(engine, logging.Named("calculator"))

	results, err := calc.CalculateBatch(ctx, acts, p, cfg.Billing.Concurrency)
	if results == nil && err != nil {
		return err
	}
	if err != nil && !opts.skipErrors {
		return err
	}

	var skipped []output.Skipped
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		logger.Warn("action skipped", zap.String("action", r.Action.ID), zap.Error(r.Err))
		skipped = append(skipped, output.Skipped{Action: r.Action.ID, Reason: r.Err.Error()})
	}

	bills, err := bill.NewAggregator(logging.Named("aggregator")).WithPlan(p).Aggregate(calculator.Charges(results))
	if err != nil {
		return err
	}
	if opts.assignIDs {
		var gen bill.IDGenerator = bill.RandomIDs{}
		if opts.stableIDs {
			gen = bill.NewStableIDs(p.Name)
		}
		if err := bill.AssignIDs(bills, gen); err != nil {
			return err
		}
	}
	logger.Info("billing run finished",
		zap.String("plan", p.Name),
		zap.Int("actions", len(acts)),
		zap.Int("bills", len(bills)),
		zap.Int("skipped", len(skipped)))

	formatter, err := output.New(output.Format(opts.format), output.Options{
		ShowCharges: opts.showCharges,
		NoColor:     opts.noColor,
	})
	if err != nil {
		return err
	}
	return formatter.Render(out, &output.Report{
		Plan:        p.Name,
		Bills:       bills,
		Skipped:     skipped,
		GeneratedAt: time.Now().UTC(),
	})
}

func loadPlan(reg *registry.Registry, cfg *config.Config, path, name string) (*plan.Plan, error) {
	plans, err := hcl.NewLoader(reg, cfg.Variables(), logging.Named("plans")).LoadFile(path)
	if err != nil {
		return nil, err
	}
	if name != "" {
		return hcl.Find(plans, name)
	}
	if len(plans) == 0 {
		return nil, hcl.ErrNoPlans(path)
	}
	return plans[0], nil
}

func newEngine(cfg *config.Config) (*formula.Engine, error) {
	return formula.NewEngine(
		formula.WithCacheSize(cfg.Formula.CacheSize),
		formula.WithLogger(logging.Named("formula")),
	)
}
