package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samber/lo"

	"metered-billing/core/bill"
	"metered-billing/core/charge"
	"metered-billing/core/money"
)

// JSONFormatter renders the report as an indented JSON document
type JSONFormatter struct {
	opts Options
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

type reportJSON struct {
	Plan        string        `json:"plan"`
	GeneratedAt time.Time     `json:"generated_at"`
	Bills       []billJSON    `json:"bills"`
	Totals      []money.Money `json:"totals"`
	Skipped     []Skipped     `json:"skipped,omitempty"`
}

type billJSON struct {
	ID       string       `json:"id,omitempty"`
	Key      string       `json:"key"`
	Customer string       `json:"customer"`
	Type     string       `json:"type"`
	Target   string       `json:"target,omitempty"`
	Plan     string       `json:"plan,omitempty"`
	Time     time.Time    `json:"time"`
	Quantity string       `json:"quantity"`
	Sum      money.Money  `json:"sum"`
	Price    money.Money  `json:"price"`
	State    bill.State   `json:"state,omitempty"`
	Comment  string       `json:"comment,omitempty"`
	Charges  []chargeJSON `json:"charges,omitempty"`
}

type chargeJSON struct {
	Action   string       `json:"action"`
	Price    string       `json:"price"`
	Usage    string       `json:"usage"`
	Sum      money.Money  `json:"sum"`
	Discount *money.Money `json:"discount,omitempty"`
}

// Render writes the report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	doc := reportJSON{
		Plan:        report.Plan,
		GeneratedAt: report.GeneratedAt,
		Bills:       make([]billJSON, 0, len(report.Bills)),
		Totals:      report.Totals(),
		Skipped:     report.Skipped,
	}
	for _, b := range report.Bills {
		bj, err := f.bill(b)
		if err != nil {
			return err
		}
		doc.Bills = append(doc.Bills, bj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (f *JSONFormatter) bill(b *bill.Bill) (billJSON, error) {
	avg, err := b.CalculatePrice()
	if err != nil {
		return billJSON{}, err
	}
	out := billJSON{
		ID:       b.ID(),
		Key:      b.UniqueString(),
		Customer: b.Customer().UniqueID(),
		Type:     b.Type().UniqueID(),
		Target:   b.Target().UniqueID(),
		Time:     b.Time(),
		Quantity: b.Quantity().String(),
		Sum:      b.Sum().Round(),
		Price:    avg.Round(),
		State:    b.State(),
		Comment:  b.Comment(),
	}
	if p := b.Plan(); p != nil {
		out.Plan = lo.Ternary(p.ID != "", p.ID, p.Name)
	}
	if f.opts.ShowCharges {
		out.Charges = lo.Map(b.Charges(), func(ch *charge.Charge, _ int) chargeJSON {
			cj := chargeJSON{
				Action: ch.Action().ID,
				Usage:  ch.Usage().String(),
				Sum:    ch.Sum().Round(),
			}
			if ch.Price() != nil {
				cj.Price = ch.Price().ID
			}
			if d, ok := ch.Discount(); ok {
				cj.Discount = &d
			}
			return cj
		})
	}
	return out, nil
}
