// Package cmd - plan commands
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"metered-billing/adapters/plan/hcl"
	"metered-billing/core/registry"
	"metered-billing/internal/config"
	"metered-billing/internal/logging"
)

// planCmd groups plan management commands
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect tariff plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var planValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a plan file loads and its formulas compile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlanValidate(config.Get(), args[0], cmd.OutOrStdout())
	},
}

func init() {
	planCmd.AddCommand(planValidateCmd)
}

func runPlanValidate(cfg *config.Config, path string, out io.Writer) error {
	plans, err := hcl.NewLoader(registry.New(), cfg.Variables(), logging.Named("plans")).LoadFile(path)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return hcl.ErrNoPlans(path)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if p.HasFormula() {
			if _, err := engine.Build(p.Formula); err != nil {
				return fmt.Errorf("plan %s: %w", p.Name, err)
			}
		}
		fmt.Fprintf(out, "✓ plan %s: %d prices, %d types, %d targets\n",
			p.Name, len(p.Prices), len(p.Types()), len(p.Targets()))
	}
	return nil
}
