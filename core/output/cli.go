package output

import (
	"fmt"
	"io"
	"time"

	"metered-billing/core/bill"
)

// CLIFormatter renders bills as a terminal table
type CLIFormatter struct {
	opts Options
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the bill table, the per-currency totals and any skipped actions.
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	p := painter{noColor: f.opts.NoColor}

	fmt.Fprintln(w, p.color(bold+cyan, "━━━ Bills: "+report.Plan+" ━━━"))
	fmt.Fprintln(w)

	if len(report.Bills) == 0 {
		fmt.Fprintln(w, p.color(dim, "No billable actions."))
	} else {
		t := newTable("BILL", "CUSTOMER", "TYPE", "TARGET", "TIME", "QUANTITY", "SUM")
		t.alignRight(5, 6)
		for _, b := range report.Bills {
			f.addBill(t, b)
		}
		if err := t.render(w, p); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	for _, total := range report.Totals() {
		fmt.Fprintf(w, "%s %s\n", p.color(bold, "Total:"), total)
	}

	for _, s := range report.Skipped {
		fmt.Fprintf(w, "%s action %s skipped: %s\n", p.color(yellow, "⚠"), s.Action, s.Reason)
	}
	return nil
}

func (f *CLIFormatter) addBill(t *table, b *bill.Bill) {
	id := b.ID()
	if id == "" {
		id = "-"
	}
	target := "-"
	if b.Target() != nil {
		target = b.Target().UniqueID()
	}
	t.addRow(id, b.Customer().UniqueID(), b.Type().UniqueID(), target,
		b.Time().Format(time.RFC3339), b.Quantity().String(), b.Sum().String())

	if !f.opts.ShowCharges {
		return
	}
	for _, ch := range b.Charges() {
		label := "└ " + ch.Action().ID
		if d, ok := ch.Discount(); ok {
			label += " (discount " + d.String() + ")"
		}
		t.addRow("", "", label, "", "", ch.Usage().String(), ch.Sum().String())
	}
}
