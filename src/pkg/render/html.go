package render

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/report"
)

/*
Digest builds the HTML email body: a fixed page shell with a summary stat
strip, one section per pipeline (count badge, preview table or empty-state
line) and a footer. Inline CSS only — email clients strip everything else.

Preview tables are truncated to thresholds.PreviewRows with an "N más en el
adjunto" note; the attachments carry the full detail.
*/
func Digest(discounts report.DiscountReport, aging report.AgingReport, delays []report.DelayAlertRow, thresholds config.Thresholds, today time.Time) string {
	var buffer bytes.Buffer

	buffer.WriteString("<!DOCTYPE html>")
	buffer.WriteString(`<html><head><meta charset="UTF-8"></head>`)
	buffer.WriteString(`<body style="font-family:Arial,sans-serif;background:#f0f2f5;margin:0;padding:24px;">`)
	buffer.WriteString(`<div style="max-width:820px;margin:auto;background:#fff;border-radius:10px;overflow:hidden;box-shadow:0 2px 12px rgba(0,0,0,0.08);">`)

	// Header band.
	buffer.WriteString(`<div style="background:#1B3A6B;padding:28px 32px;">`)
	buffer.WriteString(`<h1 style="color:#fff;margin:0;font-size:22px;">Reporte Temponovo</h1>`)
	buffer.WriteString(`<p style="color:#8eadd4;margin:6px 0 0;font-size:13px;">` + today.Format("02/01/2006") + `</p>`)
	buffer.WriteString(`</div>`)

	buffer.WriteString(`<div style="padding:28px 32px;">`)
	writeStatStrip(&buffer, discounts, aging, delays)
	writeSection(&buffer, "🏷️", fmt.Sprintf("Descuentos superiores al %.0f%%", thresholds.DiscountYellow), len(discounts.Summary), "#D32F2F",
		discountTable(discounts.Summary, thresholds))
	writeSection(&buffer, "💸", "Cobranza vencida", len(aging.Summary), "#E65100",
		agingTable(aging.Summary, thresholds))
	writeSection(&buffer, "📦", "Pedidos atrasados", len(delays), "#1565C0",
		delayTable(delays, thresholds))
	buffer.WriteString(`</div>`)

	// Footer.
	buffer.WriteString(`<div style="background:#f8f9fb;padding:14px 32px;border-top:1px solid #e8eaed;text-align:center;">`)
	buffer.WriteString(`<p style="margin:0;font-size:11px;color:#aaa;">Reporte automático · Temponovo · Odoo ERP</p>`)
	buffer.WriteString(`</div>`)

	buffer.WriteString(`</div></body></html>`)
	return buffer.String()
}

/*
Subject builds the email subject line with the run date and the per-pipeline
alert counts.
*/
func Subject(discounts report.DiscountReport, aging report.AgingReport, delays []report.DelayAlertRow, today time.Time) string {
	return fmt.Sprintf("Reporte Temponovo — %s (%d desc · %d cobr · %d ped)",
		today.Format("02/01/2006"), len(discounts.Summary), len(aging.Summary), len(delays))
}

func writeStatStrip(buffer *bytes.Buffer, discounts report.DiscountReport, aging report.AgingReport, delays []report.DelayAlertRow) {
	totalAlerts := len(discounts.Summary) + len(aging.Summary) + len(delays)

	stat := func(label string, value string) {
		buffer.WriteString(`<td style="padding:10px 14px;text-align:center;">`)
		buffer.WriteString(`<div style="font-size:20px;font-weight:bold;color:#1B3A6B;">` + value + `</div>`)
		buffer.WriteString(`<div style="font-size:11px;color:#888;">` + label + `</div>`)
		buffer.WriteString(`</td>`)
	}

	buffer.WriteString(`<table style="width:100%;border-collapse:collapse;background:#f8f9fb;border-radius:8px;margin-bottom:28px;"><tr>`)
	stat("Alertas", strconv.Itoa(totalAlerts))
	stat("Descuentos", strconv.Itoa(len(discounts.Summary)))
	stat("Cobranza", strconv.Itoa(len(aging.Summary)))
	stat("Pedidos", strconv.Itoa(len(delays)))
	stat("Deuda vencida", html.EscapeString(FormatCLP(aging.TotalOutstanding())))
	buffer.WriteString(`</tr></table>`)
}

func writeSection(buffer *bytes.Buffer, emoji string, title string, count int, color string, content string) {
	buffer.WriteString(`<div style="margin-bottom:32px;">`)
	buffer.WriteString(`<h3 style="margin:0 0 12px;color:#1B3A6B;font-size:15px;border-left:4px solid ` + color + `;padding-left:12px;">`)
	buffer.WriteString(emoji + ` ` + html.EscapeString(title))
	buffer.WriteString(` <span style="margin-left:8px;background:` + color + `;color:#fff;padding:2px 9px;border-radius:12px;font-size:12px;">` + strconv.Itoa(count) + `</span>`)
	buffer.WriteString(`</h3>`)
	buffer.WriteString(content)
	buffer.WriteString(`</div>`)
}

const (
	headerCellStyle = `style="background:#1B3A6B;color:#fff;padding:8px 12px;text-align:left;"`
	rightHeaderCell = `style="background:#1B3A6B;color:#fff;padding:8px 12px;text-align:right;"`
	centerHeader    = `style="background:#1B3A6B;color:#fff;padding:8px 12px;text-align:center;"`
	tableStyle      = `style="width:100%;border-collapse:collapse;font-size:12px;"`
)

func emptyState(message string) string {
	return `<p style="color:#4caf50;font-style:italic;">✅ ` + message + `</p>`
}

func truncationNote(hidden int) string {
	if hidden <= 0 {
		return ""
	}
	return `<p style="font-size:11px;color:#888;margin-top:6px;">📎 ` + strconv.Itoa(hidden) + ` más en el adjunto</p>`
}

func discountTable(rows []report.DiscountSummaryRow, thresholds config.Thresholds) string {
	if len(rows) == 0 {
		return emptyState(fmt.Sprintf("Sin descuentos altos en los últimos %d días", thresholds.DiscountDays))
	}

	shown := rows
	if len(shown) > thresholds.PreviewRows {
		shown = shown[:thresholds.PreviewRows]
	}

	var buffer bytes.Buffer
	buffer.WriteString(`<table ` + tableStyle + `><tr>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>Cliente</th>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>N° Pedido</th>`)
	buffer.WriteString(`<th ` + centerHeader + `>Fecha</th>`)
	buffer.WriteString(`<th ` + centerHeader + `>Descuento</th></tr>`)

	for _, row := range shown {
		background := "#FFFDE7"
		if report.ClassifySeverity(row.Discount, thresholds.DiscountRed) == report.SeverityRed {
			background = "#FFEBEE"
		}
		buffer.WriteString(`<tr style="background:` + background + `;">`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;">` + html.EscapeString(row.Customer) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;">` + html.EscapeString(row.Document) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;text-align:center;">` + html.EscapeString(row.Date) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;text-align:center;font-weight:bold;">` + fmt.Sprintf("%.1f%%", row.Discount) + `</td>`)
		buffer.WriteString(`</tr>`)
	}
	buffer.WriteString(`</table>`)
	buffer.WriteString(truncationNote(len(rows) - len(shown)))
	return buffer.String()
}

func agingTable(rows []report.CustomerAgingRow, thresholds config.Thresholds) string {
	if len(rows) == 0 {
		return emptyState("Sin facturas vencidas")
	}

	shown := rows
	if len(shown) > thresholds.PreviewRows {
		shown = shown[:thresholds.PreviewRows]
	}

	var buffer bytes.Buffer
	buffer.WriteString(`<table ` + tableStyle + `><tr>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>Cliente · Vendedor · Ciudad</th>`)
	buffer.WriteString(`<th ` + rightHeaderCell + `>A la fecha</th>`)
	buffer.WriteString(`<th ` + rightHeaderCell + `>1-30 días</th>`)
	buffer.WriteString(`<th ` + rightHeaderCell + `>Vencido &gt;30</th>`)
	buffer.WriteString(`<th ` + rightHeaderCell + `>Total</th></tr>`)

	moneyCell := `style="padding:8px 12px;border-bottom:1px solid #eee;text-align:right;"`

	for _, row := range shown {
		info := `<strong>` + html.EscapeString(row.Customer) + `</strong><br><small style='color:#888;'>` +
			html.EscapeString(row.Salesperson+" · "+row.City) + `</small>`

		current := "—"
		if !row.Current.IsZero() {
			current = FormatCLP(row.Current)
		}
		days1To30 := "—"
		if !row.Days1To30.IsZero() {
			days1To30 = FormatCLP(row.Days1To30)
		}

		buffer.WriteString(`<tr>`)
		buffer.WriteString(`<td style="padding:8px 12px;border-bottom:1px solid #eee;">` + info + `</td>`)
		buffer.WriteString(`<td ` + moneyCell + `>` + current + `</td>`)
		buffer.WriteString(`<td ` + moneyCell + `>` + days1To30 + `</td>`)
		buffer.WriteString(`<td style="padding:8px 12px;border-bottom:1px solid #eee;text-align:right;font-weight:bold;color:#c62828;">` + FormatCLP(row.Over30) + `</td>`)
		buffer.WriteString(`<td style="padding:8px 12px;border-bottom:1px solid #eee;text-align:right;font-weight:bold;">` + FormatCLP(row.Total) + `</td>`)
		buffer.WriteString(`</tr>`)
	}

	// Totals over the rows actually shown, so the table stays self-consistent
	// when truncated.
	currentTotal := decimal.Zero
	days1To30Total := decimal.Zero
	over30Total := decimal.Zero
	grandTotal := decimal.Zero
	for _, row := range shown {
		currentTotal = currentTotal.Add(row.Current)
		days1To30Total = days1To30Total.Add(row.Days1To30)
		over30Total = over30Total.Add(row.Over30)
		grandTotal = grandTotal.Add(row.Total)
	}

	totalCell := `style="padding:8px 12px;text-align:right;font-weight:bold;border-top:2px solid #ddd;"`
	buffer.WriteString(`<tr style="background:#f0f4f8;">`)
	buffer.WriteString(`<td style="padding:8px 12px;font-weight:bold;border-top:2px solid #ddd;">TOTAL</td>`)
	buffer.WriteString(`<td ` + totalCell + `>` + FormatCLP(currentTotal) + `</td>`)
	buffer.WriteString(`<td ` + totalCell + `>` + FormatCLP(days1To30Total) + `</td>`)
	buffer.WriteString(`<td style="padding:8px 12px;text-align:right;font-weight:bold;color:#c62828;border-top:2px solid #ddd;">` + FormatCLP(over30Total) + `</td>`)
	buffer.WriteString(`<td ` + totalCell + `>` + FormatCLP(grandTotal) + `</td>`)
	buffer.WriteString(`</tr></table>`)
	buffer.WriteString(truncationNote(len(rows) - len(shown)))
	return buffer.String()
}

var delayStateIcons = map[report.DelayState]string{
	report.DelayUnconfirmed: "📋",
	report.DelayNotPicked:   "📦",
	report.DelayNotShipped:  "🚚",
}

func delayTable(rows []report.DelayAlertRow, thresholds config.Thresholds) string {
	if len(rows) == 0 {
		return emptyState("Sin pedidos atrasados")
	}

	shown := rows
	if len(shown) > thresholds.PreviewRows {
		shown = shown[:thresholds.PreviewRows]
	}

	var buffer bytes.Buffer
	buffer.WriteString(`<table ` + tableStyle + `><tr>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>N° Pedido</th>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>Cliente</th>`)
	buffer.WriteString(`<th ` + headerCellStyle + `>Vendedor</th>`)
	buffer.WriteString(`<th ` + centerHeader + `>Estado</th>`)
	buffer.WriteString(`<th ` + centerHeader + `>Días</th></tr>`)

	// Grouping by state is presentation only: the pipeline already emits the
	// rows grouped, so a banner row appears whenever the state changes.
	currentState := report.DelayState("")
	for _, row := range shown {
		if row.State != currentState {
			currentState = row.State
			icon := delayStateIcons[currentState]
			buffer.WriteString(`<tr><td colspan="5" style="background:#1B3A6B;color:#fff;padding:6px 12px;font-weight:bold;font-size:11px;">` +
				icon + ` ` + html.EscapeString(string(currentState)) + `</td></tr>`)
		}

		buffer.WriteString(`<tr style="background:#F5F5F5;">`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;font-weight:bold;">` + html.EscapeString(row.Order) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;">` + html.EscapeString(row.Customer) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;color:#666;">` + html.EscapeString(row.Salesperson) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;text-align:center;">` + html.EscapeString(string(row.State)) + `</td>`)
		buffer.WriteString(`<td style="padding:7px 12px;border-bottom:1px solid #eee;text-align:center;font-weight:bold;">` + strconv.Itoa(row.Days) + `d</td>`)
		buffer.WriteString(`</tr>`)
	}
	buffer.WriteString(`</table>`)
	buffer.WriteString(truncationNote(len(rows) - len(shown)))
	return buffer.String()
}
