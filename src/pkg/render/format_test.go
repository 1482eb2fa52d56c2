package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCLP(t *testing.T) {
	tests := []struct {
		amount decimal.Decimal
		want   string
	}{
		{amount: decimal.Zero, want: "$ 0"},
		{amount: decimal.NewFromInt(999), want: "$ 999"},
		{amount: decimal.NewFromInt(1000), want: "$ 1.000"},
		{amount: decimal.NewFromInt(1234567), want: "$ 1.234.567"},
		{amount: decimal.NewFromInt(-4500), want: "-$ 4.500"},
		{amount: decimal.NewFromFloat(1499.6), want: "$ 1.500"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, FormatCLP(test.amount), "amount %s", test.amount)
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1", "."))
	assert.Equal(t, "100", groupThousands("100", "."))
	assert.Equal(t, "1.000", groupThousands("1000", "."))
	assert.Equal(t, "12.345.678", groupThousands("12345678", "."))
}
