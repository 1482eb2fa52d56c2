package render

import (
	"fmt"

	"github.com/tuumbleweed/xerr"
	"github.com/xuri/excelize/v2"

	"sales-alerts/src/pkg/util"
)

// CellKind selects the number format applied to a column.
type CellKind int

const (
	KindText CellKind = iota
	KindCurrency
	KindPercent
	KindNumber
)

// Column describes one spreadsheet column.
type Column struct {
	Header string
	Kind   CellKind
}

/*
Sheet is a renderer-agnostic description of one report spreadsheet: a title
band, typed columns, the data rows, an optional per-row fill color, and the
index of the monetary column the totals row sums.

The renderer is pure presentation — rows arrive already filtered, bucketed
and sorted by the pipelines.
*/
type Sheet struct {
	Name        string
	TabColor    string
	Title       string
	Columns     []Column
	Rows        [][]any
	RowFills    []string // hex per row; "" means white
	TotalColumn int      // 0-based; -1 disables the totals row
}

const (
	titleRow     = 1
	headerRow    = 2
	firstDataRow = 3
	maxColWidth  = 45
)

/*
BuildWorkbook renders the sheet into a finished xlsx: merged blue title
band, styled frozen header, per-row severity fills, currency/percent
formats, a live SUM formula in the totals row and auto-sized columns capped
at maxColWidth.
*/
func BuildWorkbook(sheet Sheet) (content []byte, e *xerr.Error) {
	file := excelize.NewFile()
	defer file.Close()

	renameErr := file.SetSheetName("Sheet1", sheet.Name)
	if renameErr != nil {
		e = xerr.NewError(renameErr, "rename worksheet", sheet.Name)
		return content, e
	}
	if sheet.TabColor != "" {
		tabColor := sheet.TabColor
		propsErr := file.SetSheetProps(sheet.Name, &excelize.SheetPropsOptions{TabColorRGB: &tabColor})
		if propsErr != nil {
			e = xerr.NewError(propsErr, "set worksheet tab color", sheet.Name)
			return content, e
		}
	}

	styles, e := newStyleSet(file)
	if e != nil {
		return content, e
	}

	e = writeTitleBand(file, sheet, styles)
	if e != nil {
		return content, e
	}
	e = writeHeaderRow(file, sheet, styles)
	if e != nil {
		return content, e
	}
	e = writeDataRows(file, sheet, styles)
	if e != nil {
		return content, e
	}
	e = writeTotalsRow(file, sheet, styles)
	if e != nil {
		return content, e
	}
	e = sizeColumns(file, sheet)
	if e != nil {
		return content, e
	}

	freezeErr := file.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	})
	if freezeErr != nil {
		e = xerr.NewError(freezeErr, "freeze header rows", sheet.Name)
		return content, e
	}

	buffer, writeErr := file.WriteToBuffer()
	if writeErr != nil {
		e = xerr.NewError(writeErr, "serialize workbook", sheet.Name)
		return content, e
	}

	content = buffer.Bytes()
	return content, e
}

/*
styleSet caches the style ids one workbook needs. Data styles are keyed by
fill color and cell kind.
*/
type styleSet struct {
	file  *excelize.File
	title int
	head  int
	data  map[string]int
}

func newStyleSet(file *excelize.File) (styles *styleSet, e *xerr.Error) {
	styles = &styleSet{file: file, data: map[string]int{}}

	var styleErr error
	styles.title, styleErr = file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13, Color: colorWhite, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorBlue}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if styleErr != nil {
		e = xerr.NewError(styleErr, "create title style", nil)
		return styles, e
	}

	styles.head, styleErr = file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10, Color: colorWhite, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorBlue}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "CCCCCC"},
			{Type: "right", Style: 1, Color: "CCCCCC"},
		},
	})
	if styleErr != nil {
		e = xerr.NewError(styleErr, "create header style", nil)
		return styles, e
	}

	return styles, e
}

/*
dataStyle returns (building on first use) the style for a data cell with the
given fill, kind and weight.
*/
func (styles *styleSet) dataStyle(fill string, kind CellKind, bold bool) (styleID int, e *xerr.Error) {
	if fill == "" {
		fill = colorWhite
	}
	key := fmt.Sprintf("%s/%d/%t", fill, kind, bold)
	if cached, exists := styles.data[key]; exists {
		return cached, e
	}

	style := &excelize.Style{
		Font:      &excelize.Font{Size: 9, Family: "Arial", Bold: bold},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "E0E0E0"},
			{Type: "right", Style: 1, Color: "E0E0E0"},
		},
	}

	switch kind {
	case KindCurrency:
		format := `$#,##0;($#,##0);"-"`
		style.CustomNumFmt = &format
	case KindPercent:
		format := `0.0"%"`
		style.CustomNumFmt = &format
	}

	styleID, styleErr := styles.file.NewStyle(style)
	if styleErr != nil {
		e = xerr.NewError(styleErr, "create data style", key)
		return styleID, e
	}

	styles.data[key] = styleID
	return styleID, e
}

func writeTitleBand(file *excelize.File, sheet Sheet, styles *styleSet) (e *xerr.Error) {
	last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), titleRow)
	if mergeErr := file.MergeCell(sheet.Name, "A1", last); mergeErr != nil {
		e = xerr.NewError(mergeErr, "merge title band", sheet.Name)
		return e
	}
	if valueErr := file.SetCellValue(sheet.Name, "A1", sheet.Title); valueErr != nil {
		e = xerr.NewError(valueErr, "write title", sheet.Name)
		return e
	}
	if styleErr := file.SetCellStyle(sheet.Name, "A1", last, styles.title); styleErr != nil {
		e = xerr.NewError(styleErr, "style title band", sheet.Name)
		return e
	}
	if heightErr := file.SetRowHeight(sheet.Name, titleRow, 32); heightErr != nil {
		e = xerr.NewError(heightErr, "set title row height", sheet.Name)
		return e
	}
	return e
}

func writeHeaderRow(file *excelize.File, sheet Sheet, styles *styleSet) (e *xerr.Error) {
	for index, column := range sheet.Columns {
		cell, _ := excelize.CoordinatesToCellName(index+1, headerRow)
		if valueErr := file.SetCellValue(sheet.Name, cell, column.Header); valueErr != nil {
			e = xerr.NewError(valueErr, "write header cell", column.Header)
			return e
		}
		if styleErr := file.SetCellStyle(sheet.Name, cell, cell, styles.head); styleErr != nil {
			e = xerr.NewError(styleErr, "style header cell", column.Header)
			return e
		}
	}
	if heightErr := file.SetRowHeight(sheet.Name, headerRow, 24); heightErr != nil {
		e = xerr.NewError(heightErr, "set header row height", sheet.Name)
		return e
	}
	return e
}

func writeDataRows(file *excelize.File, sheet Sheet, styles *styleSet) (e *xerr.Error) {
	for rowIndex, row := range sheet.Rows {
		fill := ""
		if rowIndex < len(sheet.RowFills) {
			fill = sheet.RowFills[rowIndex]
		}

		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, firstDataRow+rowIndex)
			if valueErr := file.SetCellValue(sheet.Name, cell, value); valueErr != nil {
				e = xerr.NewError(valueErr, "write data cell", cell)
				return e
			}

			styleID, styleErr := styles.dataStyle(fill, sheet.Columns[colIndex].Kind, false)
			if styleErr != nil {
				e = styleErr
				return e
			}
			if applyErr := file.SetCellStyle(sheet.Name, cell, cell, styleID); applyErr != nil {
				e = xerr.NewError(applyErr, "style data cell", cell)
				return e
			}
		}
	}
	return e
}

/*
writeTotalsRow appends a TOTAL row with a live SUM over the monetary column.
The formula, not a precomputed value, so the sheet stays honest if someone
edits rows by hand.
*/
func writeTotalsRow(file *excelize.File, sheet Sheet, styles *styleSet) (e *xerr.Error) {
	if sheet.TotalColumn < 0 || len(sheet.Rows) == 0 {
		return e
	}

	totalRow := firstDataRow + len(sheet.Rows)

	labelCell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if valueErr := file.SetCellValue(sheet.Name, labelCell, "TOTAL"); valueErr != nil {
		e = xerr.NewError(valueErr, "write totals label", sheet.Name)
		return e
	}
	labelStyle, e := styles.dataStyle(colorGrayFill, KindText, true)
	if e != nil {
		return e
	}
	if styleErr := file.SetCellStyle(sheet.Name, labelCell, labelCell, labelStyle); styleErr != nil {
		e = xerr.NewError(styleErr, "style totals label", sheet.Name)
		return e
	}

	sumColumn, _ := excelize.ColumnNumberToName(sheet.TotalColumn + 1)
	sumCell, _ := excelize.CoordinatesToCellName(sheet.TotalColumn+1, totalRow)
	formula := fmt.Sprintf("SUM(%s%d:%s%d)", sumColumn, firstDataRow, sumColumn, totalRow-1)
	if formulaErr := file.SetCellFormula(sheet.Name, sumCell, formula); formulaErr != nil {
		e = xerr.NewError(formulaErr, "write totals formula", formula)
		return e
	}
	sumStyle, e := styles.dataStyle(colorGrayFill, KindCurrency, true)
	if e != nil {
		return e
	}
	if styleErr := file.SetCellStyle(sheet.Name, sumCell, sumCell, sumStyle); styleErr != nil {
		e = xerr.NewError(styleErr, "style totals formula cell", sumCell)
		return e
	}

	return e
}

/*
sizeColumns widens each column to its longest rendered value plus padding,
never narrower than the header and never wider than maxColWidth.
*/
func sizeColumns(file *excelize.File, sheet Sheet) (e *xerr.Error) {
	for colIndex, column := range sheet.Columns {
		width := float64(len(column.Header) + 4)

		for _, row := range sheet.Rows {
			if colIndex >= len(row) {
				continue
			}
			cellWidth := float64(util.Clamp(len(fmt.Sprint(row[colIndex]))+2, 10, maxColWidth))
			if cellWidth > width {
				width = cellWidth
			}
		}

		columnName, _ := excelize.ColumnNumberToName(colIndex + 1)
		if widthErr := file.SetColWidth(sheet.Name, columnName, columnName, width); widthErr != nil {
			e = xerr.NewError(widthErr, "set column width", column.Header)
			return e
		}
	}
	return e
}
