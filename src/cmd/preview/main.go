package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-alerts/src/pkg/config"
	echomw "sales-alerts/src/pkg/echo-middleware"
	"sales-alerts/src/pkg/render"
	"sales-alerts/src/pkg/report"
)

/*
Local preview server for the email template: serves the digest rendered from
fixture pipeline outputs so layout changes can be checked in a browser
without touching the ERP or sending anything.

	go run ./src/cmd/preview -addr 127.0.0.1:8402
*/
func main() {
	addrFlag := flag.String("addr", "127.0.0.1:8402", "Listen address")
	flag.Parse()

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfgErr.QuitIf(xerr.ErrorTypeError)
	}

	server := echo.New()
	server.HideBanner = true
	server.Use(echomw.RouteAccessLoggerMiddleware)
	server.Use(echomw.RateLimiterMiddleware)

	server.GET("/", func(c echo.Context) error {
		discounts, aging, delays := fixtureData()
		body := render.Digest(discounts, aging, delays, cfg.Thresholds, time.Now())
		return c.HTML(http.StatusOK, body)
	})
	server.GET("/empty", func(c echo.Context) error {
		body := render.Digest(report.DiscountReport{}, report.AgingReport{}, nil, cfg.Thresholds, time.Now())
		return c.HTML(http.StatusOK, body)
	})

	tl.Log(tl.Notice, palette.BlueBold, "Digest preview on http://%s (/, /empty)", *addrFlag)
	startErr := server.Start(*addrFlag)
	xerr.QuitIfError(startErr, "start preview server")
}

// fixtureData fakes a run with every section populated, including both
// severities, an overdue customer and all three delay states.
func fixtureData() (report.DiscountReport, report.AgingReport, []report.DelayAlertRow) {
	money := func(value int64) decimal.Decimal { return decimal.NewFromInt(value) }

	discounts := report.DiscountReport{
		Summary: []report.DiscountSummaryRow{
			{Customer: "Comercial Andes SpA", Document: "S00341", Date: "2025-08-28", Discount: 55},
			{Customer: "Distribuidora Sur Ltda", Document: "S00338", Date: "2025-08-27", Discount: 35},
		},
		Detail: []report.DiscountDetailRow{
			{Kind: "Pedido", Customer: "Comercial Andes SpA", Document: "S00341", Date: "2025-08-28",
				ProductCode: "RLJ-102", ProductName: "Reloj pared clásico", UnitPrice: money(19990),
				Discount: 55, Quantity: 4, Subtotal: money(35982), Severity: report.SeverityRed},
		},
	}

	aging := report.AgingReport{
		Summary: []report.CustomerAgingRow{
			{
				CustomerID: 7, Customer: "Comercial Andes SpA", Salesperson: "P. Rojas", City: "Santiago",
				Current: money(0), Days1To30: money(50000), Over30: money(100000), Total: money(150000),
				Invoices: []report.AgingInvoiceRow{
					{Customer: "Comercial Andes SpA", Invoice: "FAC/2025/0101", DueDate: "2025-07-18", DaysOverdue: 45, Pending: money(100000)},
					{Customer: "Comercial Andes SpA", Invoice: "FAC/2025/0144", DueDate: "2025-08-22", DaysOverdue: 10, Pending: money(50000)},
				},
			},
		},
	}
	aging.Detail = aging.Summary[0].Invoices

	delays := []report.DelayAlertRow{
		{Order: "S00322", Customer: "Ferretería Central", Salesperson: "M. Díaz", State: report.DelayUnconfirmed, Days: 6},
		{Order: "S00319", Customer: "Bazar Oriente", Salesperson: "P. Rojas", State: report.DelayNotPicked, Days: 5},
		{Order: "S00315", Customer: "Comercial Andes SpA", Salesperson: "M. Díaz", State: report.DelayNotShipped, Days: 4},
	}

	return discounts, aging, delays
}
