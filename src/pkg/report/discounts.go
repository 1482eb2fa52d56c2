package report

import (
	"sort"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/odoo"
)

/*
FetchDiscounts pulls order lines and invoice lines discounted above the
yellow threshold within the last DiscountDays, resolves the linked orders
for customer/date, and builds the summary + detail views.
*/
func FetchDiscounts(remote Searcher, thresholds config.Thresholds, today time.Time) (result DiscountReport, e *xerr.Error) {
	fromDate := today.AddDate(0, 0, -thresholds.DiscountDays).Format("2006-01-02")

	orderLines, e := remote.SearchRead(
		"sale.order.line",
		[]odoo.Filter{
			{Field: "discount", Op: ">", Value: thresholds.DiscountYellow},
			{Field: "order_id.state", Op: "in", Value: []string{"sale", "done"}},
			{Field: "order_id.date_order", Op: ">=", Value: fromDate},
		},
		[]string{"order_id", "product_id", "discount", "price_unit", "product_uom_qty", "price_subtotal"},
		0,
	)
	if e != nil {
		return result, e
	}

	invoiceLines, e := remote.SearchRead(
		"account.move.line",
		[]odoo.Filter{
			{Field: "discount", Op: ">", Value: thresholds.DiscountYellow},
			{Field: "move_id.move_type", Op: "=", Value: "out_invoice"},
			{Field: "move_id.state", Op: "=", Value: "posted"},
			{Field: "display_type", Op: "=", Value: "product"},
			{Field: "move_id.invoice_date", Op: ">=", Value: fromDate},
		},
		[]string{"move_id", "partner_id", "product_id", "discount", "price_unit", "quantity", "price_subtotal"},
		0,
	)
	if e != nil {
		return result, e
	}

	orders, e := fetchLinkedOrders(remote, orderLines)
	if e != nil {
		return result, e
	}

	result = BuildDiscountReport(orderLines, invoiceLines, orders, thresholds.DiscountRed)

	tl.Log(tl.Info1, palette.Cyan, "Discounts: %d lines over %.0f%%, %d documents", len(result.Detail), thresholds.DiscountYellow, len(result.Summary))
	return result, e
}

/*
fetchLinkedOrders resolves the distinct sale.order ids referenced by the
order lines into id→record, for customer name, order name and date.
*/
func fetchLinkedOrders(remote Searcher, orderLines []odoo.Record) (orders map[int]odoo.Record, e *xerr.Error) {
	orders = map[int]odoo.Record{}

	ids := make([]int, 0)
	seen := map[int]bool{}
	for _, line := range orderLines {
		orderID := line.Ref("order_id").ID
		if orderID > 0 && !seen[orderID] {
			seen[orderID] = true
			ids = append(ids, orderID)
		}
	}
	if len(ids) == 0 {
		return orders, e
	}

	rows, e := remote.SearchRead(
		"sale.order",
		[]odoo.Filter{{Field: "id", Op: "in", Value: ids}},
		[]string{"id", "partner_id", "date_order", "name"},
		0,
	)
	if e != nil {
		return orders, e
	}

	for _, row := range rows {
		orders[row.Int("id")] = row
	}
	return orders, e
}

/*
BuildDiscountReport turns the fetched lines into the two sorted views. Pure:
no remote access, so tests can drive it with fixture rows.
*/
func BuildDiscountReport(orderLines []odoo.Record, invoiceLines []odoo.Record, orders map[int]odoo.Record, redThreshold float64) DiscountReport {
	result := DiscountReport{
		Summary: make([]DiscountSummaryRow, 0),
		Detail:  make([]DiscountDetailRow, 0),
	}
	summaryIndex := map[string]int{}

	keepMax := func(customer string, document string, date string, discount float64) {
		index, exists := summaryIndex[document]
		if !exists {
			summaryIndex[document] = len(result.Summary)
			result.Summary = append(result.Summary, DiscountSummaryRow{
				Customer: customer, Document: document, Date: date, Discount: discount,
			})
			return
		}
		if discount > result.Summary[index].Discount {
			result.Summary[index].Discount = discount
		}
	}

	for _, line := range orderLines {
		order := orders[line.Ref("order_id").ID]
		customer := order.Ref("partner_id").Name
		document := order.Str("name")
		date := order.Str("date_order")
		if len(date) > 10 {
			date = date[:10]
		}
		code, name := SplitProductLabel(line.Ref("product_id").Name)
		discount := line.Float("discount")

		keepMax(customer, document, date, discount)
		result.Detail = append(result.Detail, DiscountDetailRow{
			Kind: "Pedido", Customer: customer, Document: document, Date: date,
			ProductCode: code, ProductName: name,
			UnitPrice: line.Dec("price_unit"), Discount: discount,
			Quantity: line.Float("product_uom_qty"), Subtotal: line.Dec("price_subtotal"),
			Severity: ClassifySeverity(discount, redThreshold),
		})
	}

	for _, line := range invoiceLines {
		customer := line.Ref("partner_id").Name
		document := line.Ref("move_id").Name
		code, name := SplitProductLabel(line.Ref("product_id").Name)
		discount := line.Float("discount")

		keepMax(customer, document, "", discount)
		result.Detail = append(result.Detail, DiscountDetailRow{
			Kind: "Factura", Customer: customer, Document: document, Date: "",
			ProductCode: code, ProductName: name,
			UnitPrice: line.Dec("price_unit"), Discount: discount,
			Quantity: line.Float("quantity"), Subtotal: line.Dec("price_subtotal"),
			Severity: ClassifySeverity(discount, redThreshold),
		})
	}

	sort.SliceStable(result.Summary, func(left int, right int) bool {
		return result.Summary[left].Discount > result.Summary[right].Discount
	})
	sort.SliceStable(result.Detail, func(left int, right int) bool {
		return result.Detail[left].Discount > result.Detail[right].Discount
	})

	return result
}

/*
SplitProductLabel extracts code and name from a "[CODE] Name" display label.

The split rule is compatibility-relevant and mirrors the upstream behavior
exactly: the code is everything before the first ']' with '[' stripped and
trimmed; the name is everything after the last "] "; a label with no ']' at
all passes through unchanged as the name with an empty code.
*/
func SplitProductLabel(label string) (code string, name string) {
	if !strings.Contains(label, "]") {
		return "", label
	}

	head := label[:strings.Index(label, "]")]
	code = strings.TrimSpace(strings.ReplaceAll(head, "[", ""))

	name = label
	if tail := strings.LastIndex(label, "] "); tail >= 0 {
		name = label[tail+2:]
	}
	return code, name
}
