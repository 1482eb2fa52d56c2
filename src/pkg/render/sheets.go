package render

import (
	"fmt"
	"time"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/report"
)

/*
The adapters below map each pipeline's detail rows onto a Sheet. All
filtering and ordering already happened in the pipelines; here it is only
columns, fills and formats.
*/

// DiscountSheet lays out the discount lines, shaded by severity.
func DiscountSheet(detail []report.DiscountDetailRow, thresholds config.Thresholds) Sheet {
	sheet := Sheet{
		Name:     "Descuentos",
		TabColor: "D32F2F",
		Title:    fmt.Sprintf("DESCUENTOS > %.0f%% — Últimos %d días", thresholds.DiscountYellow, thresholds.DiscountDays),
		Columns: []Column{
			{Header: "Tipo"}, {Header: "Cliente"}, {Header: "N° Pedido"}, {Header: "Fecha"},
			{Header: "Código"}, {Header: "Producto"},
			{Header: "Precio Unit", Kind: KindCurrency},
			{Header: "Descuento %", Kind: KindPercent},
			{Header: "Cantidad", Kind: KindNumber},
			{Header: "Subtotal", Kind: KindCurrency},
		},
		TotalColumn: 9,
	}

	for _, row := range detail {
		fill := colorAmberFill
		if row.Severity == report.SeverityRed {
			fill = colorRedFill
		}
		sheet.RowFills = append(sheet.RowFills, fill)
		sheet.Rows = append(sheet.Rows, []any{
			row.Kind, row.Customer, row.Document, row.Date,
			row.ProductCode, row.ProductName,
			row.UnitPrice.InexactFloat64(), row.Discount,
			row.Quantity, row.Subtotal.InexactFloat64(),
		})
	}

	return sheet
}

// ReceivablesSheet lays out the open invoices, shaded by how overdue they are.
func ReceivablesSheet(detail []report.AgingInvoiceRow, today time.Time) Sheet {
	sheet := Sheet{
		Name:     "Cobranza",
		TabColor: "E65100",
		Title:    "COBRANZA PENDIENTE COMPLETA — " + today.Format("02/01/2006"),
		Columns: []Column{
			{Header: "Cliente"}, {Header: "Factura"}, {Header: "Fecha Venc."},
			{Header: "Días Vencido", Kind: KindNumber},
			{Header: "Monto Pendiente", Kind: KindCurrency},
		},
		TotalColumn: 4,
	}

	for _, row := range detail {
		fill := ""
		switch {
		case row.DaysOverdue > 30:
			fill = colorRedFill
		case row.DaysOverdue > 0:
			fill = colorAmberFill
		}
		sheet.RowFills = append(sheet.RowFills, fill)
		sheet.Rows = append(sheet.Rows, []any{
			row.Customer, row.Invoice, row.DueDate, row.DaysOverdue, row.Pending.InexactFloat64(),
		})
	}

	return sheet
}

// FulfillmentSheet lays out the late-order alerts. No monetary column, so no
// totals row.
func FulfillmentSheet(alerts []report.DelayAlertRow, today time.Time) Sheet {
	sheet := Sheet{
		Name:     "Pedidos",
		TabColor: "1565C0",
		Title:    "PEDIDOS ATRASADOS — " + today.Format("02/01/2006"),
		Columns: []Column{
			{Header: "N° Pedido"}, {Header: "Cliente"}, {Header: "Vendedor"},
			{Header: "Estado"},
			{Header: "Días", Kind: KindNumber},
		},
		TotalColumn: -1,
	}

	for _, row := range alerts {
		fill := ""
		if row.State == report.DelayNotShipped {
			fill = colorGrayFill
		}
		sheet.RowFills = append(sheet.RowFills, fill)
		sheet.Rows = append(sheet.Rows, []any{
			row.Order, row.Customer, row.Salesperson, string(row.State), row.Days,
		})
	}

	return sheet
}
