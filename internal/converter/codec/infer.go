package codec

import (
	"math"
	"strconv"
	"strings"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/spf13/cast"
)

//nolint:gochecknoglobals // read-only lookup
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

func isMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// buildTable types raw text records column by column and assembles a table.
// width is the number of columns; header is padded or named as needed.
func buildTable(header []string, records [][]string, width int) *entity.Table {
	names := columnNames(header, width)

	rows := make([][]any, len(records))
	for i := range rows {
		rows[i] = make([]any, width)
	}

	cells := make([]string, len(records))
	for col := 0; col < width; col++ {
		for i, rec := range records {
			if col < len(rec) {
				cells[i] = rec[col]
			} else {
				cells[i] = ""
			}
		}
		for i, v := range typeCells(cells) {
			rows[i][col] = v
		}
	}

	return entity.NewTable(names, rows)
}

// columnNames names blank headers "Unnamed: <i>" and suffixes repeated names
// with ".1", ".2", ...
func columnNames(header []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		base := name
		for used[name] {
			suffix[base]++
			name = base + "." + strconv.Itoa(suffix[base])
		}
		used[name] = true
		names[i] = name
	}

	return names
}

// typeCells converts one column of raw text into typed cells. The column is
// integer if every present value parses as an integer, float if every one
// parses as a number, boolean for true/false, and text otherwise. Integer
// columns with missing cells are widened to float.
func typeCells(cells []string) []any {
	out := make([]any, len(cells))

	present := 0
	allInt, allFloat, allBool := true, true, true
	for _, raw := range cells {
		if isMissingToken(raw) {
			continue
		}
		present++

		s := strings.TrimSpace(raw)
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBool(s); !ok {
				allBool = false
			}
		}
	}

	if present == 0 {
		return out
	}

	hasMissing := present < len(cells)
	for i, raw := range cells {
		if isMissingToken(raw) {
			continue
		}

		s := strings.TrimSpace(raw)
		switch {
		case allInt && !hasMissing:
			v, _ := strconv.ParseInt(s, 10, 64)
			out[i] = v
		case allInt || allFloat:
			v, _ := strconv.ParseFloat(s, 64)
			out[i] = v
		case allBool:
			v, _ := parseBool(s)
			out[i] = v
		default:
			out[i] = raw
		}
	}

	return out
}

// normalizeNumbers makes typed input agree with text input: float columns
// hold only floats, and integer columns with missing cells become float.
func normalizeNumbers(t *entity.Table) {
	for col, c := range t.Columns {
		switch c.Kind {
		case entity.ColumnKindFloat:
		case entity.ColumnKindInteger:
			if !hasMissing(t, col) {
				continue
			}
		default:
			continue
		}

		for _, row := range t.Rows {
			if v, ok := row[col].(int64); ok {
				row[col] = float64(v)
			}
		}
		t.Columns[col].Kind = entity.ColumnKindFloat
	}
}

func hasMissing(t *entity.Table, col int) bool {
	for _, row := range t.Rows {
		if row[col] == nil {
			return true
		}
	}
	return false
}

// FormatCell renders a cell as delimited text. Missing cells are empty,
// floats always carry a decimal point and booleans are True/False.
func FormatCell(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case float64:
		return formatFloat(val), nil
	case bool:
		if val {
			return "True", nil
		}
		return "False", nil
	default:
		return cast.ToStringE(val)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return ""
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
