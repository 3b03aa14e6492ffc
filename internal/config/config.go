// Package config provides configuration management.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"metered-billing/internal/errors"
	"metered-billing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Billing contains calculation settings
	Billing BillingConfig `mapstructure:"billing"`

	// Formula contains formula engine settings
	Formula FormulaConfig `mapstructure:"formula"`

	// Output contains output configuration
	Output OutputConfig `mapstructure:"output"`

	// Logging contains logging configuration
	Logging logging.Config `mapstructure:"logging"`

	// PlanVariables are exposed to plan files for interpolation
	PlanVariables map[string]string `mapstructure:"plan_variables"`
}

// BillingConfig contains calculation settings
type BillingConfig struct {
	// DefaultCurrency is used by plan files that reference ${currency}
	DefaultCurrency string `mapstructure:"default_currency"`

	// Concurrency bounds the number of actions calculated in parallel
	Concurrency int `mapstructure:"concurrency"`

	// SkipErrors drops actions whose calculation fails instead of aborting
	SkipErrors bool `mapstructure:"skip_errors"`
}

// FormulaConfig contains formula engine settings
type FormulaConfig struct {
	// CacheSize is the number of compiled rules kept per engine
	CacheSize int `mapstructure:"cache_size"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `mapstructure:"default_format"`

	// ShowCharges lists contributing charges under each bill
	ShowCharges bool `mapstructure:"show_charges"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Billing: BillingConfig{
			DefaultCurrency: "USD",
			Concurrency:     4,
		},
		Formula: FormulaConfig{
			CacheSize: 128,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowCharges:   true,
		},
		Logging:       logging.DefaultConfig(),
		PlanVariables: map[string]string{},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("billing.default_currency", cfg.Billing.DefaultCurrency)
	v.SetDefault("billing.concurrency", cfg.Billing.Concurrency)
	v.SetDefault("billing.skip_errors", cfg.Billing.SkipErrors)
	v.SetDefault("formula.cache_size", cfg.Formula.CacheSize)
	v.SetDefault("output.default_format", cfg.Output.DefaultFormat)
	v.SetDefault("output.show_charges", cfg.Output.ShowCharges)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("logging.development", cfg.Logging.Development)
}

// Load loads configuration from path (or ./billing.{yaml,json,toml} when path
// is empty) and BILLING_* environment variables.
// Priority (highest to lowest):
// 1. Environment variables (e.g., BILLING_BILLING_CONCURRENCY)
// 2. the config file
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("billing")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, errors.Config("error reading config file", err)
		}
	}

	v.SetEnvPrefix("BILLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("error decoding config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the calculator cannot use.
func (c *Config) Validate() error {
	if c.Billing.Concurrency < 1 {
		return errors.Config("billing.concurrency must be at least 1", nil)
	}
	if c.Formula.CacheSize < 1 {
		return errors.Config("formula.cache_size must be at least 1", nil)
	}
	switch c.Output.DefaultFormat {
	case "cli", "json":
	default:
		return errors.Config("unsupported output.default_format "+c.Output.DefaultFormat, nil)
	}
	return nil
}

// Variables returns the plan variables with the default currency filled in.
func (c *Config) Variables() map[string]string {
	vars := make(map[string]string, len(c.PlanVariables)+1)
	vars["currency"] = c.Billing.DefaultCurrency
	for k, val := range c.PlanVariables {
		vars[k] = val
	}
	return vars
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
