package odoo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rows arrive through encoding/json, so fixtures go through it too to get
// the same dynamic types (float64 numbers, []any lists, false for empties).
func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	record := Record{}
	require.NoError(t, json.Unmarshal([]byte(raw), &record))
	return record
}

func TestRecordAccessorsOnDecodedRow(t *testing.T) {
	record := decodeRecord(t, `{
		"id": 41,
		"name": "S00341",
		"discount": 35.5,
		"partner_id": [7, "Comercial Andes SpA"],
		"user_id": false,
		"picking_ids": [101, 102],
		"date_order": "2025-08-28 10:15:00",
		"invoice_date_due": "2025-07-18",
		"posted": true
	}`)

	assert.Equal(t, 41, record.Int("id"))
	assert.Equal(t, "S00341", record.Str("name"))
	assert.Equal(t, 35.5, record.Float("discount"))
	assert.True(t, record.Bool("posted"))

	partner := record.Ref("partner_id")
	assert.Equal(t, 7, partner.ID)
	assert.Equal(t, "Comercial Andes SpA", partner.Name)

	assert.Equal(t, []int{101, 102}, record.IDs("picking_ids"))

	assert.Equal(t, time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC), record.Date("date_order"))
	assert.Equal(t, time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC), record.Date("invoice_date_due"))
}

func TestRecordAccessorsArePermissive(t *testing.T) {
	record := decodeRecord(t, `{
		"name": false,
		"amount_residual": false,
		"partner_id": false,
		"picking_ids": false,
		"invoice_date_due": false
	}`)

	assert.Equal(t, "", record.Str("name"))
	assert.Equal(t, 0.0, record.Float("amount_residual"))
	assert.Equal(t, Ref{}, record.Ref("partner_id"))
	assert.Nil(t, record.IDs("picking_ids"))
	assert.True(t, record.Date("invoice_date_due").IsZero())

	// Fields that are not in the row at all behave the same way.
	assert.Equal(t, "", record.Str("missing"))
	assert.Equal(t, 0, record.Int("missing"))
	assert.False(t, record.Bool("missing"))
	assert.True(t, record.Date("missing").IsZero())
}

func TestRecordDec(t *testing.T) {
	record := Record{"amount_residual": 150000.0}
	assert.True(t, record.Dec("amount_residual").Equal(decimal.NewFromInt(150000)))
	assert.True(t, record.Dec("missing").Equal(decimal.Zero))
}

func TestRecordDateRejectsGarbage(t *testing.T) {
	record := Record{"invoice_date_due": "soon"}
	assert.True(t, record.Date("invoice_date_due").IsZero())
}

func TestFilterMarshalsAsTriple(t *testing.T) {
	domain := []Filter{
		{Field: "state", Op: "=", Value: "posted"},
		{Field: "payment_state", Op: "in", Value: []string{"not_paid", "partial"}},
	}

	encoded, err := json.Marshal(domain)
	require.NoError(t, err)
	assert.JSONEq(t, `[["state","=","posted"],["payment_state","in",["not_paid","partial"]]]`, string(encoded))
}
