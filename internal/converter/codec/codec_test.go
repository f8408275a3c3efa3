package codec

import (
	"math"
	"testing"
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want entity.Format
	}{
		{name: "sales.csv", want: entity.FormatCSV},
		{name: "SALES.CSV", want: entity.FormatCSV},
		{name: "book.xlsx", want: entity.FormatXLSX},
		{name: "records.Json", want: entity.FormatJSON},
		{name: "notes.txt", want: entity.FormatTSV},
		{name: "report.pdf", want: entity.FormatUnknown},
		{name: "old.xls", want: entity.FormatUnknown},
		{name: "noext", want: entity.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Detect(tt.name))
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		label string
		want  entity.Format
	}{
		{label: "CSV", want: entity.FormatCSV},
		{label: "excel", want: entity.FormatXLSX},
		{label: "XLSX", want: entity.FormatXLSX},
		{label: " json ", want: entity.FormatJSON},
		{label: "TXT", want: entity.FormatTSV},
		{label: "tsv", want: entity.FormatTSV},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTarget(tt.label)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTarget("parquet")
	require.ErrorIs(t, err, ErrUnknownTarget)
}

func TestOutputName(t *testing.T) {
	require.Equal(t, "data.v1.xlsx", OutputName("data.v1.csv", entity.FormatXLSX))
	require.Equal(t, "report.json", OutputName("report", entity.FormatJSON))
	require.Equal(t, "notes.csv", OutputName("notes.TXT", entity.FormatCSV))
	require.Equal(t, "a.txt", OutputName("a.json", entity.FormatTSV))
}

func TestLookupLabelsAndMIME(t *testing.T) {
	c, ok := Lookup(entity.FormatXLSX)
	require.True(t, ok)
	require.Equal(t, "Excel", c.Label)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", c.MIME)

	c, ok = Lookup(entity.FormatTSV)
	require.True(t, ok)
	require.Equal(t, "TXT", c.Label)
	require.Equal(t, "text/plain", c.MIME)

	_, ok = Lookup(entity.FormatUnknown)
	require.False(t, ok)

	require.Equal(t, []string{".csv", ".xlsx", ".json", ".txt"}, SupportedExtensions())
}

func TestDecodeCSVTypesColumns(t *testing.T) {
	content := "name,age,score,active\nAnn,30,1.5,true\nBob,,2,False\n"

	table, err := Decode(entity.FormatCSV, []byte(content))
	require.NoError(t, err)

	require.Equal(t, []string{"name", "age", "score", "active"}, table.Names())
	require.Equal(t, entity.ColumnKindText, table.Columns[0].Kind)
	require.Equal(t, entity.ColumnKindFloat, table.Columns[1].Kind)
	require.Equal(t, entity.ColumnKindFloat, table.Columns[2].Kind)
	require.Equal(t, entity.ColumnKindBoolean, table.Columns[3].Kind)

	require.Equal(t, [][]any{
		{"Ann", float64(30), 1.5, true},
		{"Bob", nil, float64(2), false},
	}, table.Rows)
}

func TestDecodeCSVMissingTokens(t *testing.T) {
	content := "a,b\n1,NA\n2,hello\nN/A,null\n"

	table, err := Decode(entity.FormatCSV, []byte(content))
	require.NoError(t, err)

	require.Equal(t, [][]any{
		{float64(1), nil},
		{float64(2), "hello"},
		{nil, nil},
	}, table.Rows)
	require.Equal(t, 3, table.CountMissing())
}

func TestDecodeCSVHeaders(t *testing.T) {
	table, err := Decode(entity.FormatCSV, []byte("a,,a,a\n1,2,3,4\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2"}, table.Names())

	table, err = Decode(entity.FormatCSV, []byte("\xEF\xBB\xBFid\n7\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, table.Names())
	require.Equal(t, [][]any{{int64(7)}}, table.Rows)
}

func TestDecodeCSVShortAndWideRows(t *testing.T) {
	table, err := Decode(entity.FormatCSV, []byte("a,b,c\n1\n"))
	require.NoError(t, err)
	require.Equal(t, [][]any{{int64(1), nil, nil}}, table.Rows)

	_, err = Decode(entity.FormatCSV, []byte("a,b\n1,2\n1,2,3\n"))
	require.EqualError(t, err, "expected 2 fields in line 3, saw 3")
}

func TestDecodeCSVEmpty(t *testing.T) {
	_, err := Decode(entity.FormatCSV, nil)
	require.ErrorIs(t, err, ErrNoColumns)

	table, err := Decode(entity.FormatCSV, []byte("a,b\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, table.Names())
	require.True(t, table.IsEmpty())
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	_, err := Decode(entity.FormatCSV, []byte{'a', '\n', 0xff, 0xfe})
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = Decode(entity.FormatTSV, []byte{'a', '\n', 0xc3})
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeTSV(t *testing.T) {
	table, err := Decode(entity.FormatTSV, []byte("x\ty\n1\thello, world\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, table.Names())
	require.Equal(t, [][]any{{int64(1), "hello, world"}}, table.Rows)
}

func TestDecodeJSON(t *testing.T) {
	content := `[{"a":1,"b":"x"},{"b":"y","c":null,"a":2.5},{"a":3,"b":"z","d":{"k":[1,2]}}]`

	table, err := Decode(entity.FormatJSON, []byte(content))
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "c", "d"}, table.Names())
	require.Equal(t, entity.ColumnKindFloat, table.Columns[0].Kind)
	require.Equal(t, entity.ColumnKindEmpty, table.Columns[2].Kind)
	require.Equal(t, [][]any{
		{float64(1), "x", nil, nil},
		{2.5, "y", nil, nil},
		{float64(3), "z", nil, `{"k":[1,2]}`},
	}, table.Rows)
}

func TestDecodeJSONWidensIntegersWithGaps(t *testing.T) {
	table, err := Decode(entity.FormatJSON, []byte(`[{"n":1},{"n":null},{"n":3}]`))
	require.NoError(t, err)
	require.Equal(t, entity.ColumnKindFloat, table.Columns[0].Kind)
	require.Equal(t, [][]any{{float64(1)}, {nil}, {float64(3)}}, table.Rows)

	table, err = Decode(entity.FormatJSON, []byte(`[{"n":1},{"n":2}]`))
	require.NoError(t, err)
	require.Equal(t, entity.ColumnKindInteger, table.Columns[0].Kind)
}

func TestDecodeJSONRejectsNonTabular(t *testing.T) {
	_, err := Decode(entity.FormatJSON, []byte(`{"a":1}`))
	require.ErrorIs(t, err, ErrNotTabular)

	_, err = Decode(entity.FormatJSON, []byte(`[{"a":1}, 2]`))
	require.EqualError(t, err, "record 1 is not an object")

	_, err = Decode(entity.FormatJSON, []byte(`[{"a":1}`))
	require.ErrorIs(t, err, ErrInvalidJSON)

	table, err := Decode(entity.FormatJSON, []byte(`[]`))
	require.NoError(t, err)
	require.True(t, table.IsEmpty())
}

func TestRoundTrip(t *testing.T) {
	source := entity.NewTable(
		[]string{"id", "name", "score", "ok"},
		[][]any{
			{int64(1), "Ann, Jr.", 1.5, true},
			{int64(2), "Bob", float64(2), false},
			{int64(3), "Cy \"the\" Third", 3.25, true},
		},
	)

	for _, f := range []entity.Format{entity.FormatCSV, entity.FormatXLSX, entity.FormatJSON, entity.FormatTSV} {
		t.Run(string(f), func(t *testing.T) {
			content, err := Encode(f, source)
			require.NoError(t, err)

			got, err := Decode(f, content)
			require.NoError(t, err)
			require.Equal(t, source.Names(), got.Names())
			require.Equal(t, source.Rows, got.Rows)
		})
	}
}

func TestRoundTripMissingCells(t *testing.T) {
	source := entity.NewTable(
		[]string{"n", "s"},
		[][]any{
			{1.5, "a"},
			{nil, nil},
			{float64(4), "c"},
		},
	)

	for _, f := range []entity.Format{entity.FormatCSV, entity.FormatXLSX, entity.FormatJSON, entity.FormatTSV} {
		t.Run(string(f), func(t *testing.T) {
			content, err := Encode(f, source)
			require.NoError(t, err)

			got, err := Decode(f, content)
			require.NoError(t, err)
			require.Equal(t, source.Rows, got.Rows)
			require.Equal(t, source.CountMissing(), got.CountMissing())
		})
	}
}

func TestRoundTripKeepsFloatPrecision(t *testing.T) {
	source := entity.NewTable(
		[]string{"ratio"},
		[][]any{{1234567890.123456}, {0.1 + 0.2}, {1e-7}},
	)

	for _, f := range []entity.Format{entity.FormatCSV, entity.FormatXLSX, entity.FormatJSON, entity.FormatTSV} {
		t.Run(string(f), func(t *testing.T) {
			content, err := Encode(f, source)
			require.NoError(t, err)

			got, err := Decode(f, content)
			require.NoError(t, err)
			require.Equal(t, source.Columns, got.Columns)
			require.Equal(t, source.Rows, got.Rows)
		})
	}
}

// Excel stores 2.0 and 2 the same way, so only text formats keep the kind of
// whole floats.
func TestRoundTripKeepsWholeFloatKind(t *testing.T) {
	source := entity.NewTable([]string{"price"}, [][]any{{float64(2)}, {float64(3)}})
	require.Equal(t, entity.ColumnKindFloat, source.Columns[0].Kind)

	for _, f := range []entity.Format{entity.FormatCSV, entity.FormatJSON, entity.FormatTSV} {
		t.Run(string(f), func(t *testing.T) {
			content, err := Encode(f, source)
			require.NoError(t, err)

			got, err := Decode(f, content)
			require.NoError(t, err)
			require.Equal(t, entity.ColumnKindFloat, got.Columns[0].Kind)
			require.Equal(t, source.Rows, got.Rows)
		})
	}
}

func TestDecodeXLSXReadsStoredValues(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"amount", "flag"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1234.5, true}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{99, false}))

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A3", style))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode(entity.FormatXLSX, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, entity.ColumnKindFloat, table.Columns[0].Kind)
	require.Equal(t, entity.ColumnKindBoolean, table.Columns[1].Kind)
	require.Equal(t, [][]any{{1234.5, true}, {float64(99), false}}, table.Rows)
	require.Equal(t, []int{0}, table.NumericColumns())
}

func TestDecodeXLSXKeepsDatesAsText(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "when"))
	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode(entity.FormatXLSX, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, entity.ColumnKindText, table.Columns[0].Kind)
	require.IsType(t, "", table.Rows[0][0])
}

func TestDecodeXLSXKeepsBlankRowsInside(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"n", "s"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, "a"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{3, "c"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode(entity.FormatXLSX, buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, [][]any{{float64(1), "a"}, {nil, nil}, {float64(3), "c"}}, table.Rows)
}

func TestDecodeXLSXEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode(entity.FormatXLSX, buf.Bytes())
	require.NoError(t, err)
	require.True(t, table.IsEmpty())
}

func TestEncodeCSV(t *testing.T) {
	table := entity.NewTable(
		[]string{"a", "b", "c"},
		[][]any{
			{int64(1), 2.0, true},
			{nil, 0.5, "x,y"},
		},
	)

	content, err := Encode(entity.FormatCSV, table)
	require.NoError(t, err)
	require.Equal(t, "a,b,c\n1,2.0,True\n,0.5,\"x,y\"\n", string(content))

	content, err = Encode(entity.FormatTSV, table)
	require.NoError(t, err)
	require.Equal(t, "a\tb\tc\n1\t2.0\tTrue\n\t0.5\tx,y\n", string(content))
}

func TestEncodeJSON(t *testing.T) {
	table := entity.NewTable([]string{"n", "s"}, [][]any{{float64(1), "a"}, {nil, "b"}})
	table.FillMissing(entity.MissingSentinel)

	content, err := Encode(entity.FormatJSON, table)
	require.NoError(t, err)
	require.Equal(t, `[
    {
        "n": 1.0,
        "s": "a"
    },
    {
        "n": "Missing",
        "s": "b"
    }
]`, string(content))

	content, err = Encode(entity.FormatJSON, entity.NewTable([]string{"a"}, nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(content))
}

func TestEncodeJSONRejectsInfinity(t *testing.T) {
	table := entity.NewTable([]string{"x"}, [][]any{{math.Inf(1)}})

	_, err := Encode(entity.FormatJSON, table)
	require.ErrorIs(t, err, ErrNonFinite)

	_, err = Encode(entity.FormatJSON, entity.NewTable([]string{"x"}, [][]any{{math.NaN()}}))
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestEncodeUnknownFormat(t *testing.T) {
	_, err := Encode(entity.FormatUnknown, entity.NewTable([]string{"a"}, nil))
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Decode(entity.Format("pdf"), []byte("x"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 1, want: "1.0"},
		{in: 0, want: "0.0"},
		{in: -2.5, want: "-2.5"},
		{in: 0.1, want: "0.1"},
		{in: 1e-5, want: "1e-05"},
		{in: 1e16, want: "1e+16"},
		{in: math.Inf(1), want: "inf"},
		{in: math.Inf(-1), want: "-inf"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, formatFloat(tt.in))
	}
}
