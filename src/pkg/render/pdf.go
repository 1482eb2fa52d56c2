package render

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/report"
)

var pdfColumnWidths = []float64{7, 3.5, 3, 3.5, 3.5, 5.5} // cm

/*
ReceivablesPDF renders the customer aging summary into a landscape A4
document: blue banner with the run date, a table header repeated on every
page, alternating row shading, the over-30 column in bold red, and a totals
row summing each bucket across all customers.
*/
func ReceivablesPDF(summary []report.CustomerAgingRow, today time.Time) (content []byte, e *xerr.Error) {
	pdf := fpdf.New("L", "cm", "A4", "")
	pdf.SetMargins(1.5, 1.5, 1.5)
	pdf.SetAutoPageBreak(false, 1.5)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	drawBanner(pdf, translate, today)
	drawTableHeader(pdf, translate)

	_, pageHeight := pdf.GetPageSize()
	rowHeight := 1.0

	totals := struct{ current, days1To30, over30, total decimal.Decimal }{
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
	}

	for index, row := range summary {
		if pdf.GetY()+rowHeight > pageHeight-1.5 {
			pdf.AddPage()
			drawTableHeader(pdf, translate)
		}

		shaded := index%2 == 0
		drawCustomerRow(pdf, translate, row, rowHeight, shaded)

		totals.current = totals.current.Add(row.Current)
		totals.days1To30 = totals.days1To30.Add(row.Days1To30)
		totals.over30 = totals.over30.Add(row.Over30)
		totals.total = totals.total.Add(row.Total)
	}

	if pdf.GetY()+rowHeight > pageHeight-1.5 {
		pdf.AddPage()
		drawTableHeader(pdf, translate)
	}
	drawTotalsRow(pdf, translate, totals.current, totals.days1To30, totals.over30, totals.total)

	var buffer bytes.Buffer
	if outputErr := pdf.Output(&buffer); outputErr != nil {
		e = xerr.NewError(outputErr, "serialize receivables PDF", nil)
		return content, e
	}

	content = buffer.Bytes()
	return content, e
}

func drawBanner(pdf *fpdf.Fpdf, translate func(string) string, today time.Time) {
	pdf.SetFillColor(27, 58, 107)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	title := "COBRANZA PENDIENTE COMPLETA — TEMPONOVO    " + today.Format("02/01/2006")
	pdf.CellFormat(26, 1.4, translate(title), "", 1, "C", true, 0, "")
	pdf.Ln(0.5)
}

func drawTableHeader(pdf *fpdf.Fpdf, translate func(string) string) {
	headers := []string{"Cliente · Vendedor · Ciudad", "A la fecha", "1-30 días", "Vencido >30", "Total", "Facturas vencidas"}

	pdf.SetFillColor(27, 58, 107)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8)

	for index, header := range headers {
		align := "R"
		if index == 0 || index == len(headers)-1 {
			align = "L"
		}
		pdf.CellFormat(pdfColumnWidths[index], 0.8, translate(header), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

/*
drawCustomerRow draws one customer: the first cell stacks the customer name
over "salesperson · city", the money cells are right-aligned, zero current
and 1-30 buckets show a dash, and the trailing cell lists the invoice
numbers that are more than 30 days overdue.
*/
func drawCustomerRow(pdf *fpdf.Fpdf, translate func(string) string, row report.CustomerAgingRow, rowHeight float64, shaded bool) {
	left := pdf.GetX()
	top := pdf.GetY()
	totalWidth := 0.0
	for _, width := range pdfColumnWidths {
		totalWidth += width
	}

	if shaded {
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(left, top, totalWidth, rowHeight, "F")
	}
	pdf.SetDrawColor(204, 204, 204)
	pdf.SetLineWidth(0.03)
	pdf.Rect(left, top, totalWidth, rowHeight, "D")

	// First column: two stacked lines.
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.Text(left+0.15, top+0.4, translate(clipText(row.Customer, 52)))
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(left+0.15, top+0.8, translate(clipText(row.Salesperson+" · "+row.City, 60)))

	dashIfZero := func(amount decimal.Decimal) string {
		if amount.IsZero() {
			return "—"
		}
		return FormatCLP(amount)
	}

	pdf.SetXY(left+pdfColumnWidths[0], top)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(pdfColumnWidths[1], rowHeight, translate(dashIfZero(row.Current)), "", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumnWidths[2], rowHeight, translate(dashIfZero(row.Days1To30)), "", 0, "R", false, 0, "")

	pdf.SetTextColor(198, 40, 40)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(pdfColumnWidths[3], rowHeight, translate(FormatCLP(row.Over30)), "", 0, "R", false, 0, "")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(pdfColumnWidths[4], rowHeight, translate(FormatCLP(row.Total)), "", 0, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(pdfColumnWidths[5], rowHeight, translate(clipText(overdueInvoiceList(row), 48)), "", 0, "L", false, 0, "")

	pdf.SetXY(left, top+rowHeight)
}

func drawTotalsRow(pdf *fpdf.Fpdf, translate func(string) string, current decimal.Decimal, days1To30 decimal.Decimal, over30 decimal.Decimal, total decimal.Decimal) {
	pdf.SetFillColor(227, 232, 240)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 8)

	values := []string{"TOTAL", FormatCLP(current), FormatCLP(days1To30), FormatCLP(over30), FormatCLP(total), ""}
	for index, value := range values {
		align := "R"
		if index == 0 || index == len(values)-1 {
			align = "L"
		}
		pdf.CellFormat(pdfColumnWidths[index], 0.9, translate(value), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

// overdueInvoiceList joins the numbers of this customer's invoices overdue
// by more than 30 days.
func overdueInvoiceList(row report.CustomerAgingRow) string {
	numbers := make([]string, 0)
	for _, invoice := range row.Invoices {
		if invoice.DaysOverdue > 30 {
			numbers = append(numbers, invoice.Invoice)
		}
	}
	return strings.Join(numbers, ", ")
}

func clipText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
