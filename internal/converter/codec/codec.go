package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
)

var (
	// ErrNoColumns is returned when the content has no header to read columns from.
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrUnknownFormat is returned for a format without a registered codec.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownTarget is returned for a target label that maps to no format.
	ErrUnknownTarget = errors.New("unknown target format")
)

// Codec reads and writes one tabular format.
type Codec struct {
	Format entity.Format
	// Label is how the format is named to the user as a conversion target.
	Label string
	// Extension is the lower-case extension used for detection and output names.
	Extension string
	MIME      string
	Decode    func(content []byte) (*entity.Table, error)
	Encode    func(t *entity.Table) ([]byte, error)
}

//nolint:gochecknoglobals // immutable registry
var codecs = []Codec{
	{
		Format:    entity.FormatCSV,
		Label:     "CSV",
		Extension: ".csv",
		MIME:      "text/csv",
		Decode:    decodeCSV,
		Encode:    encodeCSV,
	},
	{
		Format:    entity.FormatXLSX,
		Label:     "Excel",
		Extension: ".xlsx",
		MIME:      "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Decode:    decodeXLSX,
		Encode:    encodeXLSX,
	},
	{
		Format:    entity.FormatJSON,
		Label:     "JSON",
		Extension: ".json",
		MIME:      "application/json",
		Decode:    decodeJSON,
		Encode:    encodeJSON,
	},
	{
		Format:    entity.FormatTSV,
		Label:     "TXT",
		Extension: ".txt",
		MIME:      "text/plain",
		Decode:    decodeTSV,
		Encode:    encodeTSV,
	},
}

// Lookup returns the codec registered for f.
func Lookup(f entity.Format) (Codec, bool) {
	for _, c := range codecs {
		if c.Format == f {
			return c, true
		}
	}
	return Codec{}, false
}

// Extension returns the lower-cased extension of name, including the dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Detect classifies a file by its extension. It returns FormatUnknown for
// anything that is not .csv, .xlsx, .json or .txt (case-insensitive).
func Detect(name string) entity.Format {
	ext := Extension(name)
	for _, c := range codecs {
		if c.Extension == ext {
			return c.Format
		}
	}
	return entity.FormatUnknown
}

// SupportedExtensions lists the accepted upload extensions in registry order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(codecs))
	for _, c := range codecs {
		exts = append(exts, c.Extension)
	}
	return exts
}

// ParseTarget maps a user-facing target label to a format. "Excel" and
// "XLSX" both select the workbook format; "TXT" and "TSV" select
// tab-delimited text.
func ParseTarget(label string) (entity.Format, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "CSV":
		return entity.FormatCSV, nil
	case "EXCEL", "XLSX":
		return entity.FormatXLSX, nil
	case "JSON":
		return entity.FormatJSON, nil
	case "TXT", "TSV", "TEXT":
		return entity.FormatTSV, nil
	default:
		return entity.FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownTarget, label)
	}
}

// Decode parses content of the given format into a table.
func Decode(f entity.Format, content []byte) (*entity.Table, error) {
	c, ok := Lookup(f)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return c.Decode(content)
}

// Encode serializes t into the given format.
func Encode(f entity.Format, t *entity.Table) ([]byte, error) {
	c, ok := Lookup(f)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return c.Encode(t)
}

// OutputName replaces the extension of name with the target's extension.
func OutputName(name string, f entity.Format) string {
	c, ok := Lookup(f)
	if !ok {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + c.Extension
}
