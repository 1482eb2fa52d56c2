package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/email"
	"sales-alerts/src/pkg/odoo"
	"sales-alerts/src/pkg/render"
	"sales-alerts/src/pkg/report"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

/*
main is the scheduled report job: authenticate against the ERP, run the
three alert pipelines, render the attachments, compose the HTML digest and
deliver it. Strictly sequential; any failure aborts the run and the outer
scheduler retries the whole job on its next slot.

Example:

	ALERTS_ODOO_URL=https://erp.example.com ALERTS_ODOO_USER=bot ... go run ./src/cmd/report
	go run ./src/cmd/report -dry-run -out ./tmp   # render everything, send nothing
*/
func main() {
	dryRunFlag := flag.Bool("dry-run", false, "Render all artifacts but do not send the email")
	outDirFlag := flag.String("out", "./tmp", "Directory for artifacts written during a dry run")
	flag.Parse()

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfgErr.QuitIf(xerr.ErrorTypeError)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tl.Log(tl.Notice, palette.BlueBold, "Reporte Temponovo — %s", now.Format("02/01/2006 15:04"))

	client := odoo.NewClient(cfg.OdooURL, cfg.OdooDB, cfg.OdooUser, cfg.OdooPassword)
	authErr := client.Authenticate()
	if authErr != nil {
		authErr.QuitIf(xerr.ErrorTypeError)
	}

	tl.Log(tl.Info, palette.Cyan, "Running %s pipeline", "discounts")
	discounts, discountsErr := report.FetchDiscounts(client, cfg.Thresholds, today)
	if discountsErr != nil {
		discountsErr.QuitIf(xerr.ErrorTypeError)
	}

	tl.Log(tl.Info, palette.Cyan, "Running %s pipeline", "receivables")
	aging, agingErr := report.FetchReceivables(client, cfg.Thresholds, today)
	if agingErr != nil {
		agingErr.QuitIf(xerr.ErrorTypeError)
	}

	tl.Log(tl.Info, palette.Cyan, "Running %s pipeline", "fulfillment")
	delays, delaysErr := report.FetchDelayAlerts(client, cfg.Thresholds, today)
	if delaysErr != nil {
		delaysErr.QuitIf(xerr.ErrorTypeError)
	}

	tl.Log(tl.Info, palette.Cyan, "Rendering attachments")
	attachments, renderErr := buildAttachments(discounts, aging, delays, cfg.Thresholds, today)
	if renderErr != nil {
		renderErr.QuitIf(xerr.ErrorTypeError)
	}

	htmlBody := render.Digest(discounts, aging, delays, cfg.Thresholds, today)
	textBody := fmt.Sprintf(
		"Reporte Temponovo %s: %d documentos con descuento alto, %d clientes con deuda vencida >%d días, %d pedidos atrasados. Detalle en los adjuntos.",
		today.Format("02/01/2006"), len(discounts.Summary), len(aging.Summary), cfg.Thresholds.OverdueDays, len(delays),
	)
	subject := render.Subject(discounts, aging, delays, today)

	if *dryRunFlag {
		writeArtifacts(*outDirFlag, htmlBody, attachments)
	}

	sendEmails := !*dryRunFlag
	sendErr := email.SendMessage(
		email.Provider(cfg.EmailProvider), &sendEmails,
		cfg.SMTPUser, cfg.Recipients,
		subject, textBody, htmlBody, attachments, cfg,
	)
	if sendErr != nil {
		sendErr.QuitIf(xerr.ErrorTypeError)
	}

	tl.Log(tl.Notice, palette.GreenBold, "Run complete: %d alerts reported", len(discounts.Summary)+len(aging.Summary)+len(delays))
}

/*
buildAttachments renders the three detail spreadsheets and the receivables
summary PDF, with the run date embedded in every filename.
*/
func buildAttachments(discounts report.DiscountReport, aging report.AgingReport, delays []report.DelayAlertRow, thresholds config.Thresholds, today time.Time) (attachments []email.Attachment, e *xerr.Error) {
	dateStamp := today.Format("20060102")

	discountsXlsx, e := render.BuildWorkbook(render.DiscountSheet(discounts.Detail, thresholds))
	if e != nil {
		return attachments, e
	}
	receivablesXlsx, e := render.BuildWorkbook(render.ReceivablesSheet(aging.Detail, today))
	if e != nil {
		return attachments, e
	}
	delaysXlsx, e := render.BuildWorkbook(render.FulfillmentSheet(delays, today))
	if e != nil {
		return attachments, e
	}
	receivablesPDF, e := render.ReceivablesPDF(aging.Summary, today)
	if e != nil {
		return attachments, e
	}

	attachments = []email.Attachment{
		{Filename: "descuentos_" + dateStamp + ".xlsx", ContentType: xlsxContentType, Content: discountsXlsx},
		{Filename: "cobranza_" + dateStamp + ".xlsx", ContentType: xlsxContentType, Content: receivablesXlsx},
		{Filename: "pedidos_" + dateStamp + ".xlsx", ContentType: xlsxContentType, Content: delaysXlsx},
		{Filename: "cobranza_" + dateStamp + ".pdf", ContentType: pdfContentType, Content: receivablesPDF},
	}
	return attachments, e
}

/*
writeArtifacts dumps the digest and every attachment into outDir so a dry
run leaves something to inspect.
*/
func writeArtifacts(outDir string, htmlBody string, attachments []email.Attachment) {
	mkdirErr := os.MkdirAll(outDir, 0o755)
	xerr.QuitIfError(mkdirErr, "create artifact directory")

	digestPath := filepath.Join(outDir, "digest.html")
	writeErr := os.WriteFile(digestPath, []byte(htmlBody), 0o644)
	xerr.QuitIfError(writeErr, "write digest HTML")
	tl.Log(tl.Info1, palette.Green, "Saved digest to '%s'", digestPath)

	for _, attachment := range attachments {
		path := filepath.Join(outDir, attachment.Filename)
		writeErr = os.WriteFile(path, attachment.Content, 0o644)
		xerr.QuitIfError(writeErr, fmt.Sprintf("write artifact '%s'", path))
		tl.Log(tl.Info1, palette.Green, "Saved attachment to '%s'", path)
	}
}
