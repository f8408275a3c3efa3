package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
)

// Chart summarizes the numeric columns of a file as bar series indexed by
// row position. A file without numeric columns yields a message and no
// series.
func (u *Usecase) Chart(ctx context.Context, sessionID, fileName string) (ChartResult, error) {
	if sessionID == "" || fileName == "" {
		return ChartResult{}, pkgerror.NewInvalidInput(errors.New("session_id and file_name are required"))
	}

	var result ChartResult
	err := u.store.View(ctx, sessionID, func(session *entity.Session) error {
		file, err := readyFile(session, fileName)
		if err != nil {
			return err
		}

		result = summarizeChart(file.Upload.Name, file.Current)
		return nil
	})
	if err != nil {
		return ChartResult{}, mapStoreErr(err)
	}

	return result, nil
}

func summarizeChart(name string, t *entity.Table) ChartResult {
	result := ChartResult{FileName: name}

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		result.Message = fmt.Sprintf("no numeric data found in %s for chart visualization", name)
		return result
	}

	result.X = make([]int, t.Len())
	for i := range result.X {
		result.X[i] = i
	}

	for _, col := range numeric {
		values := make([]*float64, t.Len())
		for i, row := range t.Rows {
			switch v := row[col].(type) {
			case int64:
				f := float64(v)
				values[i] = &f
			case float64:
				if math.IsInf(v, 0) || math.IsNaN(v) {
					continue
				}
				f := v
				values[i] = &f
			}
		}

		result.Series = append(result.Series, ChartSeries{
			Name:   t.Columns[col].Name,
			Values: values,
		})
	}

	return result
}
