package render

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-alerts/src/pkg/report"
)

var workbookDay = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func reopen(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	file, openErr := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, openErr)
	t.Cleanup(func() { _ = file.Close() })
	return file
}

func rawValue(t *testing.T, file *excelize.File, sheet string, cell string) string {
	t.Helper()
	value, valueErr := file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, valueErr)
	return value
}

func TestBuildWorkbookReceivables(t *testing.T) {
	detail := []report.AgingInvoiceRow{
		{Customer: "Comercial Andes SpA", Invoice: "FAC/2025/0101", DueDate: "2025-07-18", DaysOverdue: 45, Pending: decimal.NewFromInt(100000)},
		{Customer: "Comercial Andes SpA", Invoice: "FAC/2025/0144", DueDate: "2025-08-22", DaysOverdue: 10, Pending: decimal.NewFromInt(50000)},
	}

	content, e := BuildWorkbook(ReceivablesSheet(detail, workbookDay))
	require.Nil(t, e)
	require.NotEmpty(t, content)

	file := reopen(t, content)
	require.Equal(t, []string{"Cobranza"}, file.GetSheetList())

	assert.Equal(t, "COBRANZA PENDIENTE COMPLETA — 01/09/2025", rawValue(t, file, "Cobranza", "A1"))
	assert.Equal(t, "Cliente", rawValue(t, file, "Cobranza", "A2"))
	assert.Equal(t, "Monto Pendiente", rawValue(t, file, "Cobranza", "E2"))

	assert.Equal(t, "FAC/2025/0101", rawValue(t, file, "Cobranza", "B3"))
	assert.Equal(t, "FAC/2025/0144", rawValue(t, file, "Cobranza", "B4"))

	// Totals row: label plus a live SUM over exactly the data rows.
	assert.Equal(t, "TOTAL", rawValue(t, file, "Cobranza", "A5"))
	formula, formulaErr := file.GetCellFormula("Cobranza", "E5")
	require.NoError(t, formulaErr)
	assert.Equal(t, "SUM(E3:E4)", formula)

	// The cells the formula covers add up to the pipeline's own total.
	sum := 0.0
	for row := 3; row <= 4; row += 1 {
		cellValue, parseErr := strconv.ParseFloat(rawValue(t, file, "Cobranza", "E"+strconv.Itoa(row)), 64)
		require.NoError(t, parseErr)
		sum += cellValue
	}
	assert.Equal(t, 150000.0, sum)
}

func TestBuildWorkbookWithoutTotalsRow(t *testing.T) {
	alerts := []report.DelayAlertRow{
		{Order: "S00322", Customer: "Ferretería Central", Salesperson: "M. Díaz", State: report.DelayUnconfirmed, Days: 6},
	}

	content, e := BuildWorkbook(FulfillmentSheet(alerts, workbookDay))
	require.Nil(t, e)

	file := reopen(t, content)
	assert.Equal(t, "S00322", rawValue(t, file, "Pedidos", "A3"))
	assert.Equal(t, "Sin confirmar", rawValue(t, file, "Pedidos", "D3"))

	// TotalColumn is disabled for this sheet, so the row after the data
	// stays empty.
	assert.Equal(t, "", rawValue(t, file, "Pedidos", "A4"))
}

func TestBuildWorkbookEmptySheet(t *testing.T) {
	content, e := BuildWorkbook(ReceivablesSheet(nil, workbookDay))
	require.Nil(t, e)

	file := reopen(t, content)
	assert.Equal(t, "Cliente", rawValue(t, file, "Cobranza", "A2"))
	// No data means no totals row either.
	assert.Equal(t, "", rawValue(t, file, "Cobranza", "A3"))
}

func TestDiscountSheetFillsFollowSeverity(t *testing.T) {
	detail := []report.DiscountDetailRow{
		{Document: "S00341", Discount: 55, Severity: report.SeverityRed},
		{Document: "S00338", Discount: 35, Severity: report.SeverityYellow},
	}

	sheet := DiscountSheet(detail, testThresholds())

	require.Len(t, sheet.RowFills, 2)
	assert.Equal(t, colorRedFill, sheet.RowFills[0])
	assert.Equal(t, colorAmberFill, sheet.RowFills[1])
	assert.Equal(t, 9, sheet.TotalColumn)
	assert.Len(t, sheet.Columns, 10)
}

func TestReceivablesSheetFillsFollowAge(t *testing.T) {
	detail := []report.AgingInvoiceRow{
		{Invoice: "A", DaysOverdue: 45, Pending: decimal.NewFromInt(1)},
		{Invoice: "B", DaysOverdue: 10, Pending: decimal.NewFromInt(1)},
		{Invoice: "C", DaysOverdue: 0, Pending: decimal.NewFromInt(1)},
	}

	sheet := ReceivablesSheet(detail, workbookDay)

	require.Len(t, sheet.RowFills, 3)
	assert.Equal(t, colorRedFill, sheet.RowFills[0])
	assert.Equal(t, colorAmberFill, sheet.RowFills[1])
	assert.Equal(t, "", sheet.RowFills[2])
}
