package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
)

var (
	// ErrInvalidEncoding is returned for text content that is not UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

func decodeCSV(content []byte) (*entity.Table, error) {
	return decodeDelimited(content, ',')
}

func decodeTSV(content []byte) (*entity.Table, error) {
	return decodeDelimited(content, '\t')
}

func encodeCSV(t *entity.Table) ([]byte, error) {
	return encodeDelimited(t, ',')
}

func encodeTSV(t *entity.Table) ([]byte, error) {
	return encodeDelimited(t, '\t')
}

// decodeDelimited reads a header line followed by data lines. Rows shorter
// than the header are padded with missing cells; longer rows are an error.
func decodeDelimited(content []byte, comma rune) (*entity.Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, err
	}
	header = append([]string(nil), header...)

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(record))
		}
		records = append(records, record)
	}

	return buildTable(header, records, len(header)), nil
}

func encodeDelimited(t *entity.Table, comma rune) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)
	writer.Comma = comma

	if err := writer.Write(t.Names()); err != nil {
		return nil, err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			s, err := FormatCell(v)
			if err != nil {
				return nil, err
			}
			record[i] = s
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
