package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/odoo"
)

/*
FetchReceivables pulls every posted, unpaid or partially paid customer
invoice, buckets the outstanding amounts per customer by days overdue, and
enriches each customer with their city.
*/
func FetchReceivables(remote Searcher, thresholds config.Thresholds, today time.Time) (result AgingReport, e *xerr.Error) {
	invoices, e := remote.SearchRead(
		"account.move",
		[]odoo.Filter{
			{Field: "move_type", Op: "=", Value: "out_invoice"},
			{Field: "payment_state", Op: "in", Value: []string{"not_paid", "partial"}},
			{Field: "state", Op: "=", Value: "posted"},
		},
		[]string{"name", "partner_id", "invoice_date_due", "amount_residual", "invoice_user_id"},
		0,
	)
	if e != nil {
		return result, e
	}

	customers := accumulateAging(invoices, thresholds.OverdueDays, today)

	cities, e := fetchCustomerCities(remote, customers)
	if e != nil {
		return result, e
	}

	result = BuildAgingReport(customers, cities)

	tl.Log(tl.Info1, palette.Cyan, "Receivables: %d open invoices, %d customers over %d days", len(result.Detail), len(result.Summary), thresholds.OverdueDays)
	return result, e
}

/*
accumulateAging scans the invoices into per-customer aging rows. Exposed to
BuildAgingReport rather than callers; tests drive the pair together.

Bucket rule: days ≤ 0 (or no due date) → current; days ≤ overdueDays → 1-30;
otherwise over-30. Every invoice also lands in the customer's detail list.
*/
func accumulateAging(invoices []odoo.Record, overdueDays int, today time.Time) map[int]*CustomerAgingRow {
	customers := map[int]*CustomerAgingRow{}

	for _, invoice := range invoices {
		partner := invoice.Ref("partner_id")

		row, exists := customers[partner.ID]
		if !exists {
			salesperson := invoice.Ref("invoice_user_id").Name
			if salesperson == "" {
				salesperson = "Sin vendedor"
			}
			row = &CustomerAgingRow{
				CustomerID:  partner.ID,
				Customer:    partner.Name,
				Salesperson: salesperson,
				Current:     decimal.Zero,
				Days1To30:   decimal.Zero,
				Over30:      decimal.Zero,
				Total:       decimal.Zero,
				Invoices:    make([]AgingInvoiceRow, 0),
			}
			customers[partner.ID] = row
		}

		pending := invoice.Dec("amount_residual")
		dueDate := invoice.Date("invoice_date_due")
		days := daysSince(today, dueDate)

		switch {
		case dueDate.IsZero() || days <= 0:
			row.Current = row.Current.Add(pending)
		case days <= overdueDays:
			row.Days1To30 = row.Days1To30.Add(pending)
		default:
			row.Over30 = row.Over30.Add(pending)
		}
		row.Total = row.Total.Add(pending)

		row.Invoices = append(row.Invoices, AgingInvoiceRow{
			Customer:    partner.Name,
			Invoice:     invoice.Str("name"),
			DueDate:     invoice.Str("invoice_date_due"),
			DaysOverdue: days,
			Pending:     pending,
		})
	}

	return customers
}

/*
fetchCustomerCities resolves the collected customer ids to their city via
res.partner. Customers the lookup misses keep an empty city.
*/
func fetchCustomerCities(remote Searcher, customers map[int]*CustomerAgingRow) (cities map[int]string, e *xerr.Error) {
	cities = map[int]string{}
	if len(customers) == 0 {
		return cities, e
	}

	ids := make([]int, 0, len(customers))
	for id := range customers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	partners, e := remote.SearchRead(
		"res.partner",
		[]odoo.Filter{{Field: "id", Op: "in", Value: ids}},
		[]string{"id", "city"},
		0,
	)
	if e != nil {
		return cities, e
	}

	for _, partner := range partners {
		cities[partner.Int("id")] = partner.Str("city")
	}
	return cities, e
}

/*
BuildAgingReport finalizes the accumulated rows: applies cities, keeps only
customers with over-30 exposure in the summary (sorted by it, descending),
and flattens every invoice into the detail list sorted by days overdue.
*/
func BuildAgingReport(customers map[int]*CustomerAgingRow, cities map[int]string) AgingReport {
	result := AgingReport{
		Summary: make([]CustomerAgingRow, 0, len(customers)),
		Detail:  make([]AgingInvoiceRow, 0),
	}

	ids := make([]int, 0, len(customers))
	for id := range customers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		row := customers[id]
		row.City = cities[id]

		result.Detail = append(result.Detail, row.Invoices...)
		if row.Over30.IsPositive() {
			result.Summary = append(result.Summary, *row)
		}
	}

	sort.SliceStable(result.Summary, func(left int, right int) bool {
		return result.Summary[left].Over30.GreaterThan(result.Summary[right].Over30)
	})
	sort.SliceStable(result.Detail, func(left int, right int) bool {
		return result.Detail[left].DaysOverdue > result.Detail[right].DaysOverdue
	})

	return result
}
