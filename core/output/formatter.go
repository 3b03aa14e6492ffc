// Package output renders calculated bills for people and for machines.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"

	"metered-billing/core/bill"
	"metered-billing/core/money"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, report *Report) error
}

// Options control rendering
type Options struct {
	// ShowCharges lists the charges under each bill
	ShowCharges bool

	// NoColor disables ANSI colors in CLI output
	NoColor bool
}

// Report is the result of one billing run
type Report struct {
	// Plan is the name of the plan used
	Plan string

	// Bills are the aggregated bills in order
	Bills []*bill.Bill

	// Skipped lists actions that could not be calculated
	Skipped []Skipped

	// GeneratedAt is when the run finished
	GeneratedAt time.Time
}

// Skipped records an action dropped from the run
type Skipped struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Totals returns the sum of all bills per currency, in order of first
// appearance.
func (r *Report) Totals() []money.Money {
	groups := lo.GroupBy(r.Bills, func(b *bill.Bill) money.Currency { return b.Sum().Currency() })
	currencies := lo.Uniq(lo.Map(r.Bills, func(b *bill.Bill, _ int) money.Currency { return b.Sum().Currency() }))

	totals := make([]money.Money, 0, len(currencies))
	for _, cur := range currencies {
		total := money.Zero(cur)
		for _, b := range groups[cur] {
			// same currency by construction
			total, _ = total.Add(b.Sum())
		}
		totals = append(totals, total)
	}
	return totals
}

// New returns the formatter for format
func New(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &CLIFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
