package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-alerts/src/pkg/report"
)

func TestReceivablesPDF(t *testing.T) {
	summary := []report.CustomerAgingRow{
		{
			Customer: "Comercial Andes SpA", Salesperson: "P. Rojas", City: "Santiago",
			Current: decimal.Zero, Days1To30: decimal.NewFromInt(50000),
			Over30: decimal.NewFromInt(100000), Total: decimal.NewFromInt(150000),
			Invoices: []report.AgingInvoiceRow{
				{Invoice: "FAC/2025/0101", DueDate: "2025-07-18", DaysOverdue: 45, Pending: decimal.NewFromInt(100000)},
			},
		},
	}

	content, e := ReceivablesPDF(summary, workbookDay)
	require.Nil(t, e)

	assert.True(t, strings.HasPrefix(string(content), "%PDF-"), "output is not a PDF")
	assert.Greater(t, len(content), 1000)
}

func TestReceivablesPDFEmpty(t *testing.T) {
	content, e := ReceivablesPDF(nil, workbookDay)
	require.Nil(t, e)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))
}

func TestReceivablesPDFManyPages(t *testing.T) {
	summary := make([]report.CustomerAgingRow, 0, 80)
	for index := 0; index < 80; index += 1 {
		summary = append(summary, report.CustomerAgingRow{
			Customer: "Cliente", Salesperson: "Vendedor", City: "Ciudad",
			Current: decimal.Zero, Days1To30: decimal.Zero,
			Over30: decimal.NewFromInt(1000), Total: decimal.NewFromInt(1000),
		})
	}

	content, e := ReceivablesPDF(summary, workbookDay)
	require.Nil(t, e)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))
}
