package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sales-alerts/src/pkg/config"
	"sales-alerts/src/pkg/report"
)

func testThresholds() config.Thresholds {
	return config.Thresholds{
		DiscountYellow: 30.0,
		DiscountRed:    50.0,
		DiscountDays:   3,
		OverdueDays:    30,
		QuotationDays:  3,
		PickDays:       3,
		ShipDays:       3,
		PreviewRows:    15,
	}
}

func digestFixture() (report.DiscountReport, report.AgingReport, []report.DelayAlertRow) {
	discounts := report.DiscountReport{
		Summary: []report.DiscountSummaryRow{
			{Customer: "Comercial Andes SpA", Document: "S00341", Date: "2025-08-28", Discount: 55},
			{Customer: "Distribuidora Sur Ltda", Document: "S00338", Date: "2025-08-27", Discount: 35},
		},
	}
	aging := report.AgingReport{
		Summary: []report.CustomerAgingRow{
			{
				Customer: "Comercial Andes SpA", Salesperson: "P. Rojas", City: "Santiago",
				Current: decimal.Zero, Days1To30: decimal.NewFromInt(50000),
				Over30: decimal.NewFromInt(100000), Total: decimal.NewFromInt(150000),
			},
		},
	}
	delays := []report.DelayAlertRow{
		{Order: "S00322", Customer: "Ferretería Central", Salesperson: "M. Díaz", State: report.DelayUnconfirmed, Days: 6},
		{Order: "S00315", Customer: "Comercial Andes SpA", Salesperson: "M. Díaz", State: report.DelayNotShipped, Days: 4},
	}
	return discounts, aging, delays
}

func TestDigestPopulated(t *testing.T) {
	discounts, aging, delays := digestFixture()
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	body := Digest(discounts, aging, delays, testThresholds(), today)

	assert.Contains(t, body, "Reporte Temponovo")
	assert.Contains(t, body, "01/09/2025")

	// Stat strip: 2 discounts + 1 overdue customer + 2 delays.
	assert.Contains(t, body, ">5</div>")
	assert.Contains(t, body, "$ 150.000")

	// Discount rows with severity backgrounds.
	assert.Contains(t, body, "S00341")
	assert.Contains(t, body, "55.0%")
	assert.Contains(t, body, "#FFEBEE")
	assert.Contains(t, body, "#FFFDE7")

	// Aging row: zero buckets render as a dash, over-30 in red.
	assert.Contains(t, body, "Comercial Andes SpA")
	assert.Contains(t, body, "—")
	assert.Contains(t, body, "$ 100.000")

	// Delay rows grouped under state banners.
	assert.Contains(t, body, "Sin confirmar")
	assert.Contains(t, body, "No en bulto")
	assert.Contains(t, body, ">6d</td>")

	assert.NotContains(t, body, "más en el adjunto")
}

func TestDigestEmpty(t *testing.T) {
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	body := Digest(report.DiscountReport{}, report.AgingReport{}, nil, testThresholds(), today)

	assert.Contains(t, body, "Sin descuentos altos en los últimos 3 días")
	assert.Contains(t, body, "Sin facturas vencidas")
	assert.Contains(t, body, "Sin pedidos atrasados")
	assert.Contains(t, body, "$ 0")
}

func TestDigestTruncatesLongSections(t *testing.T) {
	discounts := report.DiscountReport{}
	for index := 0; index < 20; index += 1 {
		discounts.Summary = append(discounts.Summary, report.DiscountSummaryRow{
			Customer: "Cliente", Document: fmt.Sprintf("S%05d", index), Discount: 40,
		})
	}
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	body := Digest(discounts, report.AgingReport{}, nil, testThresholds(), today)

	assert.Contains(t, body, "5 más en el adjunto")
	assert.Contains(t, body, "S00014")
	assert.NotContains(t, body, "S00015")
}

func TestDigestEscapesCustomerNames(t *testing.T) {
	discounts := report.DiscountReport{
		Summary: []report.DiscountSummaryRow{
			{Customer: "Ferretería <Centro & Sur>", Document: "S00001", Discount: 40},
		},
	}
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	body := Digest(discounts, report.AgingReport{}, nil, testThresholds(), today)

	assert.Contains(t, body, "Ferretería &lt;Centro &amp; Sur&gt;")
	assert.False(t, strings.Contains(body, "<Centro"))
}

func TestSubject(t *testing.T) {
	discounts, aging, delays := digestFixture()
	today := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	subject := Subject(discounts, aging, delays, today)

	assert.Equal(t, "Reporte Temponovo — 01/09/2025 (2 desc · 1 cobr · 2 ped)", subject)
}
