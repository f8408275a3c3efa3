package entity

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// MissingSentinel replaces missing cells when filling.
const MissingSentinel = "Missing"

// Column is a named table column and the kind inferred from its cells.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Table is an in-memory, row-ordered dataset with named, typed columns.
//
// Every row has exactly len(Columns) cells. A cell is nil when missing,
// otherwise one of int64, float64, bool or string.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// NewTable builds a table from column names and rows and infers column kinds.
// Short rows are padded with missing cells.
func NewTable(names []string, rows [][]any) *Table {
	t := &Table{
		Columns: make([]Column, len(names)),
		Rows:    make([][]any, len(rows)),
	}

	for i, name := range names {
		t.Columns[i] = Column{Name: name}
	}
	for i, row := range rows {
		cells := make([]any, len(names))
		copy(cells, row)
		t.Rows[i] = cells
	}

	t.refreshKinds()

	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows or no columns.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return lo.Map(t.Columns, func(c Column, _ int) string { return c.Name })
}

// Clone returns a copy that shares no row storage with t.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: make([]Column, len(t.Columns)),
		Rows:    make([][]any, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		copy(cells, row)
		out.Rows[i] = cells
	}
	return out
}

// Head returns up to n leading rows.
func (t *Table) Head(n int) [][]any {
	if n < 0 || n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Column returns the cells of column i in row order.
func (t *Table) Column(i int) []any {
	return lo.Map(t.Rows, func(row []any, _ int) any { return row[i] })
}

// NumericColumns returns the indexes of integer and float columns.
func (t *Table) NumericColumns() []int {
	var idx []int
	for i, c := range t.Columns {
		if c.Kind.IsNumeric() {
			idx = append(idx, i)
		}
	}
	return idx
}

// CountMissing returns the number of missing cells across the table.
func (t *Table) CountMissing() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if v == nil {
				n++
			}
		}
	}
	return n
}

// DropDuplicates removes rows equal in every cell to an earlier row, keeping
// the first occurrence and the order of the survivors. It returns the number
// of rows removed.
func (t *Table) DropDuplicates() int {
	before := len(t.Rows)
	t.Rows = lo.UniqBy(t.Rows, rowKey)
	t.refreshKinds()
	return before - len(t.Rows)
}

// FillMissing replaces every missing cell with value and returns how many
// cells were filled. Numeric columns that received a filled cell become mixed.
func (t *Table) FillMissing(value string) int {
	n := 0
	for _, row := range t.Rows {
		for j, v := range row {
			if v == nil {
				row[j] = value
				n++
			}
		}
	}
	if n > 0 {
		t.refreshKinds()
	}
	return n
}

func (t *Table) refreshKinds() {
	for i := range t.Columns {
		t.Columns[i].Kind = InferKind(t.Column(i))
	}
}

// InferKind derives the column kind from typed cells, ignoring missing ones.
func InferKind(cells []any) ColumnKind {
	var present, ints, floats, bools, texts int
	for _, v := range cells {
		switch v.(type) {
		case nil:
			continue
		case int64:
			ints++
		case float64:
			floats++
		case bool:
			bools++
		default:
			texts++
		}
		present++
	}

	switch {
	case present == 0:
		return ColumnKindEmpty
	case ints == present:
		return ColumnKindInteger
	case ints+floats == present:
		return ColumnKindFloat
	case bools == present:
		return ColumnKindBoolean
	case texts == present:
		return ColumnKindText
	default:
		return ColumnKindMixed
	}
}

// rowKey encodes a row so that two rows share a key only when every cell has
// the same type and value.
func rowKey(row []any) string {
	var b strings.Builder
	for _, v := range row {
		switch val := v.(type) {
		case nil:
			b.WriteString("n;")
		case int64:
			b.WriteString("i")
			b.WriteString(strconv.FormatInt(val, 10))
			b.WriteByte(';')
		case float64:
			if val == 0 {
				val = 0 // -0 and +0 are the same value
			}
			b.WriteString("f")
			b.WriteString(strconv.FormatUint(math.Float64bits(val), 16))
			b.WriteByte(';')
		case bool:
			if val {
				b.WriteString("t;")
			} else {
				b.WriteString("b;")
			}
		case string:
			b.WriteString("s")
			b.WriteString(strconv.Itoa(len(val)))
			b.WriteByte(':')
			b.WriteString(val)
		}
	}
	return b.String()
}
