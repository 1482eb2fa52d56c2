package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/odoo"
)

/*
Searcher is the one remote operation the pipelines need. *odoo.Client
satisfies it; tests feed canned rows instead.
*/
type Searcher interface {
	SearchRead(model string, domain []odoo.Filter, fields []string, limit int) ([]odoo.Record, *xerr.Error)
}

// Severity classifies a discount line for coloring: red at or above the red
// threshold, yellow below it (lines at or under the yellow threshold are
// never fetched at all).
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityYellow Severity = "yellow"
)

// ClassifySeverity applies the red cutoff to a discount percentage.
func ClassifySeverity(discountPct float64, redThreshold float64) Severity {
	if discountPct >= redThreshold {
		return SeverityRed
	}
	return SeverityYellow
}

/*
DiscountSummaryRow is one order or invoice in the email preview, carrying the
maximum discount observed across its lines.
*/
type DiscountSummaryRow struct {
	Customer string
	Document string
	Date     string
	Discount float64
}

/*
DiscountDetailRow is one order/invoice line in the spreadsheet.
*/
type DiscountDetailRow struct {
	Kind        string // "Pedido" or "Factura"
	Customer    string
	Document    string
	Date        string
	ProductCode string
	ProductName string
	UnitPrice   decimal.Decimal
	Discount    float64
	Quantity    float64
	Subtotal    decimal.Decimal
	Severity    Severity
}

// DiscountReport is the discount pipeline output.
type DiscountReport struct {
	Summary []DiscountSummaryRow
	Detail  []DiscountDetailRow
}

/*
AgingInvoiceRow is one open invoice: attached to its customer's summary row
and also emitted in the flat detail list for the spreadsheet.
*/
type AgingInvoiceRow struct {
	Customer    string
	Invoice     string
	DueDate     string
	DaysOverdue int
	Pending     decimal.Decimal
}

/*
CustomerAgingRow accumulates one customer's outstanding amounts into the
three aging buckets. Total is always the sum of the buckets, which in turn
equals the sum of Pending across Invoices.
*/
type CustomerAgingRow struct {
	CustomerID  int
	Customer    string
	Salesperson string
	City        string
	Current     decimal.Decimal
	Days1To30   decimal.Decimal
	Over30      decimal.Decimal
	Total       decimal.Decimal
	Invoices    []AgingInvoiceRow
}

// AgingReport is the collections pipeline output.
type AgingReport struct {
	Summary []CustomerAgingRow
	Detail  []AgingInvoiceRow
}

// TotalOutstanding sums the Total column across the summary customers.
func (report AgingReport) TotalOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, row := range report.Summary {
		total = total.Add(row.Total)
	}
	return total
}

// DelayState labels why an order is late.
type DelayState string

const (
	DelayUnconfirmed DelayState = "Sin confirmar"
	DelayNotPicked   DelayState = "No pickeado"
	DelayNotShipped  DelayState = "No en bulto"
)

/*
DelayAlertRow is one late order with the number of days elapsed since it was
placed.
*/
type DelayAlertRow struct {
	Order       string
	Customer    string
	Salesperson string
	State       DelayState
	Days        int
}

/*
daysSince counts whole days from a past date to today, both taken as
calendar dates. A zero date (missing or unparseable in the source) counts as
zero days, never as decades.
*/
func daysSince(today time.Time, past time.Time) int {
	if past.IsZero() {
		return 0
	}
	return int(today.Sub(past).Hours() / 24)
}
