// Package main is the entry point for the billing CLI.
package main

import (
	"os"

	"metered-billing/cmd/billing/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
