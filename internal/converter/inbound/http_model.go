package inbound

import (
	"math"
	"net/http"
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/codec"
	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/converter/usecase"
)

type CleaningRequest struct {
	RemoveDuplicates bool `json:"remove_duplicates"`
	FillMissing      bool `json:"fill_missing"`
}

type ConvertRequest struct {
	Target  string            `json:"target"`
	Targets map[string]string `json:"targets"`
}

type File struct {
	Name     string            `json:"name"`
	SizeKB   string            `json:"size_kb"`
	Format   entity.Format     `json:"format"`
	Status   entity.FileStatus `json:"status"`
	Message  string            `json:"message"`
	Rows     int               `json:"rows"`
	Columns  []entity.Column   `json:"columns"`
	Cleaning CleaningRequest   `json:"cleaning"`
	Notes    []string          `json:"notes,omitempty"`
}

type Artifact struct {
	ID          string        `json:"id"`
	SourceName  string        `json:"source_name"`
	FileName    string        `json:"file_name"`
	ContentType string        `json:"content_type"`
	Target      entity.Format `json:"target"`
	Size        int           `json:"size"`
	CreatedAt   time.Time     `json:"created_at"`
}

type SessionResponse struct {
	SessionID string     `json:"session_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Files     []File     `json:"files"`
	Artifacts []Artifact `json:"artifacts"`
	created   bool
}

func (r SessionResponse) StatusCode() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (r SessionResponse) Message() string {
	if r.created {
		return "files uploaded"
	}
	return "request has been successfully"
}

type PreviewResponse struct {
	FileName  string          `json:"file_name"`
	SizeKB    string          `json:"size_kb"`
	Format    entity.Format   `json:"format"`
	Columns   []entity.Column `json:"columns"`
	TotalRows int             `json:"total_rows"`
	Rows      [][]any         `json:"rows"`
}

type Report struct {
	Applied bool   `json:"applied"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

type CleaningResponse struct {
	FileName   string          `json:"file_name"`
	Options    CleaningRequest `json:"options"`
	Duplicates Report          `json:"duplicates"`
	Missing    Report          `json:"missing"`
	Rows       int             `json:"rows"`
	Columns    []entity.Column `json:"columns"`
}

type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type ChartResponse struct {
	FileName string   `json:"file_name"`
	X        []int    `json:"x"`
	Series   []Series `json:"series"`
	message  string
}

func (r ChartResponse) Message() string {
	if r.message != "" {
		return r.message
	}
	return "request has been successfully"
}

type Outcome struct {
	FileName   string                `json:"file_name"`
	Status     usecase.OutcomeStatus `json:"status"`
	FileStatus entity.FileStatus     `json:"file_status,omitempty"`
	Target     entity.Format         `json:"target"`
	Message    string                `json:"message"`
	Artifact   *Artifact             `json:"artifact,omitempty"`
}

type BatchResponse struct {
	Files     []Outcome `json:"files"`
	Converted int       `json:"converted"`
	message   string
}

func (r BatchResponse) Message() string {
	return r.message
}

func toHTTPSession(result usecase.SessionResult, created bool) SessionResponse {
	resp := SessionResponse{
		SessionID: result.SessionID,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
		Files:     make([]File, 0, len(result.Files)),
		Artifacts: make([]Artifact, 0, len(result.Artifacts)),
		created:   created,
	}

	for _, f := range result.Files {
		resp.Files = append(resp.Files, File{
			Name:     f.Name,
			SizeKB:   formatKB(f.SizeKB),
			Format:   f.Format,
			Status:   f.Status,
			Message:  f.Message,
			Rows:     f.Rows,
			Columns:  f.Columns,
			Cleaning: CleaningRequest{RemoveDuplicates: f.Cleaning.RemoveDuplicates, FillMissing: f.Cleaning.FillMissing},
			Notes:    f.Notes,
		})
	}

	for _, a := range result.Artifacts {
		resp.Artifacts = append(resp.Artifacts, toHTTPArtifact(a))
	}

	return resp
}

func toHTTPArtifact(a usecase.ArtifactSummary) Artifact {
	return Artifact{
		ID:          a.ID,
		SourceName:  a.SourceName,
		FileName:    a.FileName,
		ContentType: a.MIME,
		Target:      a.Target,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}

func toHTTPReport(r usecase.CleaningReport) Report {
	return Report{Applied: r.Ran, Count: r.Count, Message: r.Message}
}

// jsonRows replaces values JSON cannot carry, such as infinities, with
// their text form.
func jsonRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				cells[j], _ = codec.FormatCell(f)
				continue
			}
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
