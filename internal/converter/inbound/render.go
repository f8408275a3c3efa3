package inbound

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/olekukonko/tablewriter"
	"github.com/shandysiswandi/fileconv/internal/converter/codec"
	"github.com/shandysiswandi/fileconv/internal/converter/usecase"
)

// renderPreviewText draws the preview rows as a plain-text grid.
func renderPreviewText(result usecase.PreviewResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s (%s KB, %s)\n", result.FileName, formatKB(result.SizeKB), result.Format)

	header := make([]string, len(result.Columns))
	for i, c := range result.Columns {
		header[i] = c.Name
	}

	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			s, err := codec.FormatCell(v)
			if err != nil {
				return nil, err
			}
			cells[i] = s
		}
		rows = append(rows, cells)
	}

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	fmt.Fprintf(&buf, "showing %d of %d rows\n", len(result.Rows), result.TotalRows)

	return buf.Bytes(), nil
}

// renderChartHTML draws one bar series per numeric column.
func renderChartHTML(result usecase.ChartResult) ([]byte, error) {
	var buf bytes.Buffer

	if len(result.Series) == 0 {
		fmt.Fprintf(&buf, "<!DOCTYPE html><html><body><p>%s</p></body></html>", html.EscapeString(result.Message))
		return buf.Bytes(), nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: result.FileName}),
		charts.WithTitleOpts(opts.Title{Title: result.FileName, Subtitle: "numeric columns by row"}),
	)

	labels := make([]string, len(result.X))
	for i, x := range result.X {
		labels[i] = strconv.Itoa(x)
	}
	bar.SetXAxis(labels)

	for _, s := range result.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			if v != nil {
				data[i] = opts.BarData{Value: *v}
			}
		}
		bar.AddSeries(s.Name, data)
	}

	if err := bar.Render(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
