package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Palette shared by the spreadsheet, the PDF and the email body.
const (
	colorBlue      = "1B3A6B"
	colorWhite     = "FFFFFF"
	colorRedFill   = "FFEBEE"
	colorAmberFill = "FFFDE7"
	colorGrayFill  = "F5F5F5"
	colorTotalFill = "E3E8F0"
	colorRedText   = "C62828"
)

/*
FormatCLP renders an amount as Chilean pesos: no decimals, dot thousand
separators.

Example:

	1234567 -> "$ 1.234.567"
*/
func FormatCLP(amount decimal.Decimal) string {
	value := amount.Round(0).IntPart()

	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	return fmt.Sprintf("%s$ %s", sign, groupThousands(strconv.FormatInt(value, 10), "."))
}

/*
groupThousands groups digits in a base-10 string using the provided
separator.
*/
func groupThousands(raw string, sep string) string {
	if len(raw) <= 3 {
		return raw
	}

	var builder strings.Builder
	firstGroupLen := len(raw) % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}

	builder.WriteString(raw[:firstGroupLen])

	for index := firstGroupLen; index < len(raw); index += 3 {
		builder.WriteString(sep)
		builder.WriteString(raw[index : index+3])
	}

	return builder.String()
}
