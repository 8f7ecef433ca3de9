package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/triple-tgg/sams-sub000/internal/model"
)

// ParseWorkbook reads every sheet of an xlsx file into the header/row form
// consumed by validation. The first row of each sheet defines the columns;
// later rows become Row maps keyed by header. Cells are read raw so serial
// date/time values stay numeric instead of arriving pre-formatted.
func ParseWorkbook(path string) ([]model.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var sheets []model.Sheet
	for _, name := range f.GetSheetList() {
		sheet, err := parseSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// parseSheet reads one worksheet. Sheets without a header row come back
// empty rather than failing the whole workbook.
func parseSheet(f *excelize.File, name string) (model.Sheet, error) {
	sheet := model.Sheet{Name: name}
	if d, ok := InferSheetDate(name); ok {
		sheet.SheetDate = &d
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheet, err
	}
	if len(rows) == 0 {
		return sheet, nil
	}

	for _, h := range rows[0] {
		sheet.Headers = append(sheet.Headers, NormalizeHeader(h))
	}

	for _, cells := range rows[1:] {
		row := make(model.Row)
		for i, cell := range cells {
			if i >= len(sheet.Headers) || sheet.Headers[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			row[sheet.Headers[i]] = parseCellValue(cell)
		}
		if len(row) > 0 {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet, nil
}

// parseCellValue keeps numeric cells numeric and everything else as text.
// "NaN" and "Inf" parse as floats but are not spreadsheet numbers; they stay
// text so downstream rules report them instead of doing arithmetic on them.
func parseCellValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
