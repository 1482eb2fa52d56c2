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
FetchDelayAlerts runs the three fulfillment checks: quotations unconfirmed
past QuotationDays, confirmed orders with no completed pick past PickDays,
and picked orders not yet shipped past ShipDays. The merged list keeps the
original grouping (quotations, then not-picked, then not-shipped), each
group sorted by elapsed days descending.
*/
func FetchDelayAlerts(remote Searcher, thresholds config.Thresholds, today time.Time) (alerts []DelayAlertRow, e *xerr.Error) {
	orderFields := []string{"name", "partner_id", "date_order", "amount_total", "user_id", "picking_ids"}

	quotationCutoff := today.AddDate(0, 0, -thresholds.QuotationDays).Format("2006-01-02 15:04:05")
	quotations, e := remote.SearchRead(
		"sale.order",
		[]odoo.Filter{
			{Field: "state", Op: "=", Value: "draft"},
			{Field: "date_order", Op: "<", Value: quotationCutoff},
		},
		orderFields,
		0,
	)
	if e != nil {
		return alerts, e
	}

	pickCutoff := today.AddDate(0, 0, -thresholds.PickDays).Format("2006-01-02 15:04:05")
	confirmed, e := remote.SearchRead(
		"sale.order",
		[]odoo.Filter{
			{Field: "state", Op: "=", Value: "sale"},
			{Field: "date_order", Op: "<", Value: pickCutoff},
		},
		orderFields,
		0,
	)
	if e != nil {
		return alerts, e
	}

	operations, e := fetchOperations(remote, confirmed)
	if e != nil {
		return alerts, e
	}

	alerts = BuildDelayAlerts(quotations, confirmed, operations, thresholds.ShipDays, today)

	tl.Log(tl.Info1, palette.Cyan, "Fulfillment: %d late orders (%d quotations scanned, %d confirmed scanned)", len(alerts), len(quotations), len(confirmed))
	return alerts, e
}

/*
fetchOperations resolves the warehouse operations linked by the confirmed
orders into order id → operation rows. Orders without picking ids get no
entry, which BuildDelayAlerts reads as "nothing started".
*/
func fetchOperations(remote Searcher, confirmed []odoo.Record) (operations map[int][]odoo.Record, e *xerr.Error) {
	operations = map[int][]odoo.Record{}

	for _, order := range confirmed {
		pickingIDs := order.IDs("picking_ids")
		if len(pickingIDs) == 0 {
			continue
		}

		rows, searchErr := remote.SearchRead(
			"stock.picking",
			[]odoo.Filter{{Field: "id", Op: "in", Value: pickingIDs}},
			[]string{"name", "state"},
			0,
		)
		if searchErr != nil {
			e = searchErr
			return operations, e
		}
		operations[order.Int("id")] = rows
	}

	return operations, e
}

// operationKind partitions warehouse operations into picks and shipments.
type operationKind int

const (
	operationOther operationKind = iota
	operationPick
	operationShip
)

/*
classifyOperation decides whether a warehouse operation is a pick or an
outgoing shipment by substring match on its name ("PICK"/"OUT").

This leans on the warehouse's operation-type naming convention, not on a
stable identifier; if the convention changes the classification silently
stops matching. It lives in this one function so a schema-based rule can
replace it in a single place.
*/
func classifyOperation(name string) operationKind {
	if strings.Contains(name, "PICK") {
		return operationPick
	}
	if strings.Contains(name, "OUT") {
		return operationShip
	}
	return operationOther
}

/*
BuildDelayAlerts applies the three checks to the fetched orders. Pure; the
operations map carries whatever fetchOperations found per confirmed order.
*/
func BuildDelayAlerts(quotations []odoo.Record, confirmed []odoo.Record, operations map[int][]odoo.Record, shipDays int, today time.Time) []DelayAlertRow {
	unconfirmed := make([]DelayAlertRow, 0)
	notPicked := make([]DelayAlertRow, 0)
	notShipped := make([]DelayAlertRow, 0)

	for _, order := range quotations {
		unconfirmed = append(unconfirmed, DelayAlertRow{
			Order:       order.Str("name"),
			Customer:    order.Ref("partner_id").Name,
			Salesperson: order.Ref("user_id").Name,
			State:       DelayUnconfirmed,
			Days:        daysSince(today, order.Date("date_order")),
		})
	}

	for _, order := range confirmed {
		row := DelayAlertRow{
			Order:       order.Str("name"),
			Customer:    order.Ref("partner_id").Name,
			Salesperson: order.Ref("user_id").Name,
			Days:        daysSince(today, order.Date("date_order")),
		}

		orderOperations := operations[order.Int("id")]
		if len(orderOperations) == 0 {
			row.State = DelayNotPicked
			notPicked = append(notPicked, row)
			continue
		}

		pickDone := false
		shipDone := false
		for _, operation := range orderOperations {
			done := operation.Str("state") == "done"
			switch classifyOperation(operation.Str("name")) {
			case operationPick:
				pickDone = pickDone || done
			case operationShip:
				shipDone = shipDone || done
			}
		}

		if !pickDone {
			row.State = DelayNotPicked
			notPicked = append(notPicked, row)
		} else if !shipDone && row.Days >= shipDays {
			row.State = DelayNotShipped
			notShipped = append(notShipped, row)
		}
	}

	byDaysDescending := func(rows []DelayAlertRow) {
		sort.SliceStable(rows, func(left int, right int) bool {
			return rows[left].Days > rows[right].Days
		})
	}
	byDaysDescending(unconfirmed)
	byDaysDescending(notPicked)
	byDaysDescending(notShipped)

	merged := make([]DelayAlertRow, 0, len(unconfirmed)+len(notPicked)+len(notShipped))
	merged = append(merged, unconfirmed...)
	merged = append(merged, notPicked...)
	merged = append(merged, notShipped...)
	return merged
}
