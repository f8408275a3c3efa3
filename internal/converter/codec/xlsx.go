package codec

import (
	"bytes"
	"math"
	"regexp"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads the first worksheet; its first row is the header. Cells
// are read as stored, so number formats never turn numbers into text. Date
// formatted cells keep their displayed text.
func decodeXLSX(content []byte) (table *entity.Table, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheet := f.GetSheetName(0)

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return entity.NewTable(nil, nil), nil
	}

	dates := make(map[int]bool)
	for r, row := range rows {
		for c, raw := range row {
			text := cellAt(shown, r, c)
			if raw == "" || raw == text {
				continue
			}
			if keepShown(f, sheet, r, c, dates) {
				row[c] = text
			}
		}
	}

	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	if width == 0 {
		return entity.NewTable(nil, nil), nil
	}

	return buildTable(header, rows[1:], width), nil
}

func cellAt(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// keepShown reports whether the displayed text of a cell should be used
// instead of its stored value: booleans and dates.
func keepShown(f *excelize.File, sheet string, r, c int, dates map[int]bool) bool {
	cell, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return false
	}

	if typ, err := f.GetCellType(sheet, cell); err == nil {
		switch typ {
		case excelize.CellTypeBool, excelize.CellTypeDate:
			return true
		}
	}

	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	if date, ok := dates[idx]; ok {
		return date
	}

	style, err := f.GetStyle(idx)
	date := err == nil && isDateFormat(style)
	dates[idx] = date

	return date
}

// isDateFormat reports whether a style renders numbers as dates or times.
func isDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return dateTokens.MatchString(literals.ReplaceAllString(*style.CustomNumFmt, ""))
	}

	id := style.NumFmt
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

//nolint:gochecknoglobals // compiled once
var (
	literals   = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	dateTokens = regexp.MustCompile(`(?i)[ymdhs]`)
)

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// encodeXLSX writes the table to the default sheet of a new workbook.
func encodeXLSX(t *entity.Table) (out []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}

	header := make([]any, len(t.Columns))
	for i, name := range t.Names() {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}

		values := make([]any, len(row))
		for i, v := range row {
			if fv, ok := v.(float64); ok && (math.IsInf(fv, 0) || math.IsNaN(fv)) {
				values[i] = formatFloat(fv)
				continue
			}
			values[i] = v
		}

		if err := sw.SetRow(cell, values); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
