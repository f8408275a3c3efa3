package entity

// Format is a supported tabular file format.
type Format string

const (
	FormatUnknown Format = ""
	FormatCSV     Format = "CSV"
	FormatXLSX    Format = "XLSX"
	FormatJSON    Format = "JSON"
	FormatTSV     Format = "TSV"
)

// FileStatus is the outcome of loading one uploaded file into a session.
type FileStatus string

const (
	FileStatusReady         FileStatus = "READY"
	FileStatusUnsupported   FileStatus = "UNSUPPORTED"
	FileStatusParseFailed   FileStatus = "PARSE_FAILED"
	FileStatusEmpty         FileStatus = "EMPTY"
	FileStatusDuplicateName FileStatus = "DUPLICATE_NAME"
)

// ColumnKind is the scalar type inferred for a column from its cells.
type ColumnKind string

const (
	ColumnKindEmpty   ColumnKind = "empty"
	ColumnKindInteger ColumnKind = "integer"
	ColumnKindFloat   ColumnKind = "float"
	ColumnKindBoolean ColumnKind = "boolean"
	ColumnKindText    ColumnKind = "text"
	ColumnKindMixed   ColumnKind = "mixed"
)

// IsNumeric reports whether a column of this kind can be charted.
func (k ColumnKind) IsNumeric() bool {
	return k == ColumnKindInteger || k == ColumnKindFloat
}
