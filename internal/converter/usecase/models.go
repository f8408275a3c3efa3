package usecase

import (
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
)

type SessionResult struct {
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time
	Files     []FileSummary
	Artifacts []ArtifactSummary
}

type FileSummary struct {
	Name     string
	SizeKB   float64
	Format   entity.Format
	Status   entity.FileStatus
	Message  string
	Rows     int
	Columns  []entity.Column
	Cleaning entity.CleaningOptions
	Notes    []string
}

type ArtifactSummary struct {
	ID         string
	SourceName string
	FileName   string
	MIME       string
	Target     entity.Format
	Size       int
	CreatedAt  time.Time
}

type PreviewResult struct {
	FileName  string
	SizeKB    float64
	Format    entity.Format
	Columns   []entity.Column
	TotalRows int
	Rows      [][]any
}

// CleaningReport is the outcome of one cleaning transform. Ran is false when
// the option was not requested.
type CleaningReport struct {
	Ran     bool
	Count   int
	Message string
}

type CleaningResult struct {
	FileName   string
	Options    entity.CleaningOptions
	Duplicates CleaningReport
	Missing    CleaningReport
	Rows       int
	Columns    []entity.Column
}

type ChartSeries struct {
	Name string
	// Values holds one entry per row; nil marks a missing cell.
	Values []*float64
}

type ChartResult struct {
	FileName string
	X        []int
	Series   []ChartSeries
	Message  string
}

// ConvertRequest selects a target format per file. Files not listed in
// Targets use Target, which defaults to CSV.
type ConvertRequest struct {
	Target  string
	Targets map[string]string
}

type OutcomeStatus string

const (
	OutcomeConverted OutcomeStatus = "CONVERTED"
	OutcomeSkipped   OutcomeStatus = "SKIPPED"
	OutcomeFailed    OutcomeStatus = "FAILED"
)

type FileOutcome struct {
	FileName string
	Status   OutcomeStatus
	// FileStatus explains a skipped file.
	FileStatus entity.FileStatus
	Target     entity.Format
	Message    string
	Artifact   *ArtifactSummary
}

type BatchResult struct {
	Files     []FileOutcome
	Converted int
	Message   string
}

type DownloadResult struct {
	FileName string
	MIME     string
	Content  []byte
}
