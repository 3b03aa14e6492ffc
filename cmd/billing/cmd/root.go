// Package cmd provides the CLI commands for billing.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"metered-billing/internal/config"
	"metered-billing/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Price usage against tariff plans and aggregate the charges into bills",
	Long: `billing prices metered usage (traffic, disk, licenses, certificates)
against tariff plans, applies formula discounts and groups the resulting
charges into bills.

Examples:
  billing calculate --plan plans.hcl --actions actions.json
  billing calculate --plan plans.hcl --actions actions.json --format json
  billing plan validate plans.hcl
  billing discount eval 'discount("10%")' --sum "100 USD"`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./billing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(discountCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "billing version %s\n", Version)
	},
}
