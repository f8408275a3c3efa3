package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned for content that is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON content")
	// ErrNotTabular is returned for JSON that is not an array of records.
	ErrNotTabular = errors.New("expected an array of records")
	// ErrNonFinite is returned when a table holding inf or NaN is written as JSON.
	ErrNonFinite = errors.New("JSON cannot represent non-finite numbers")
)

// decodeJSON reads an array of flat objects. Columns appear in the order
// their keys are first seen; absent keys are missing cells.
func decodeJSON(content []byte) (*entity.Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !gjson.ValidBytes(content) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(content)
	if !root.IsArray() {
		return nil, ErrNotTabular
	}

	var (
		names  []string
		index  = make(map[string]int)
		values []map[int]any
		err    error
	)

	root.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			err = fmt.Errorf("record %d is not an object", len(values))
			return false
		}

		cells := make(map[int]any)
		record.ForEach(func(key, value gjson.Result) bool {
			col, ok := index[key.String()]
			if !ok {
				col = len(names)
				index[key.String()] = col
				names = append(names, key.String())
			}
			cells[col] = jsonValue(value)
			return true
		})

		values = append(values, cells)
		return true
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(values))
	for i, cells := range values {
		row := make([]any, len(names))
		for col, v := range cells {
			row[col] = v
		}
		rows[i] = row
	}

	t := entity.NewTable(names, rows)
	normalizeNumbers(t)

	return t, nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return n
		}
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}

// encodeJSON writes the table as an indented array of records with keys in
// column order. Missing cells are null and floats keep their decimal point.
func encodeJSON(t *entity.Table) ([]byte, error) {
	cfg := jsoniter.ConfigCompatibleWithStandardLibrary
	stream := cfg.BorrowStream(nil)
	defer cfg.ReturnStream(stream)

	names := t.Names()

	stream.WriteArrayStart()
	for r, row := range t.Rows {
		if r > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectStart()
		for i, v := range row {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(names[i])
			if f, ok := v.(float64); ok {
				if math.IsInf(f, 0) || math.IsNaN(f) {
					return nil, fmt.Errorf("%w: column %q", ErrNonFinite, names[i])
				}
				stream.WriteRaw(formatFloat(f))
				continue
			}
			stream.WriteVal(v)
		}
		stream.WriteObjectEnd()
	}
	stream.WriteArrayEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}

	var out bytes.Buffer
	if err := json.Indent(&out, stream.Buffer(), "", "    "); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
