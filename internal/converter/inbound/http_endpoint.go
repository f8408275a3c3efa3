package inbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/converter/usecase"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Index(ctx context.Context, r *http.Request) (any, error) {
	return pkgrouter.Raw{ContentType: "text/html; charset=utf-8", Body: indexHTML}, nil
}

func (h *HTTPEndpoint) CreateSession(ctx context.Context, r *http.Request) (any, error) {
	files, err := extractUploadedFiles(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.CreateSession(ctx, files)
	if err != nil {
		return nil, err
	}

	return toHTTPSession(result, true), nil
}

func (h *HTTPEndpoint) GetSession(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.GetSession(ctx, pkgrouter.GetParam(ctx, "session_id"))
	if err != nil {
		return nil, err
	}

	return toHTTPSession(result, false), nil
}

func (h *HTTPEndpoint) DeleteSession(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.DeleteSession(ctx, pkgrouter.GetParam(ctx, "session_id")); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) Preview(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	rows := 0
	if raw := query.Get("rows"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return nil, pkgerror.NewInvalidInput(errors.New("invalid rows"))
		}
		rows = value
	}

	result, err := h.uc.Preview(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "file_name"), rows)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(query.Get("format"), "text") {
		body, err := renderPreviewText(result)
		if err != nil {
			return nil, pkgerror.NewServer(err)
		}
		return pkgrouter.Raw{ContentType: "text/plain; charset=utf-8", Body: body}, nil
	}

	return PreviewResponse{
		FileName:  result.FileName,
		SizeKB:    formatKB(result.SizeKB),
		Format:    result.Format,
		Columns:   result.Columns,
		TotalRows: result.TotalRows,
		Rows:      jsonRows(result.Rows),
	}, nil
}

func (h *HTTPEndpoint) Cleaning(ctx context.Context, r *http.Request) (any, error) {
	var req CleaningRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	result, err := h.uc.SetCleaning(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "file_name"), entity.CleaningOptions{
		RemoveDuplicates: req.RemoveDuplicates,
		FillMissing:      req.FillMissing,
	})
	if err != nil {
		return nil, err
	}

	return CleaningResponse{
		FileName:   result.FileName,
		Options:    CleaningRequest{RemoveDuplicates: result.Options.RemoveDuplicates, FillMissing: result.Options.FillMissing},
		Duplicates: toHTTPReport(result.Duplicates),
		Missing:    toHTTPReport(result.Missing),
		Rows:       result.Rows,
		Columns:    result.Columns,
	}, nil
}

func (h *HTTPEndpoint) Chart(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Chart(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "file_name"))
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		body, err := renderChartHTML(result)
		if err != nil {
			return nil, pkgerror.NewServer(err)
		}
		return pkgrouter.Raw{ContentType: "text/html; charset=utf-8", Body: body}, nil
	}

	series := make([]Series, 0, len(result.Series))
	for _, s := range result.Series {
		series = append(series, Series{Name: s.Name, Values: s.Values})
	}

	return ChartResponse{
		FileName: result.FileName,
		X:        result.X,
		Series:   series,
		message:  result.Message,
	}, nil
}

func (h *HTTPEndpoint) Convert(ctx context.Context, r *http.Request) (any, error) {
	var req ConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	result, err := h.uc.Convert(ctx, pkgrouter.GetParam(ctx, "session_id"), usecase.ConvertRequest{
		Target:  req.Target,
		Targets: req.Targets,
	})
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(result.Files))
	for _, f := range result.Files {
		outcome := Outcome{
			FileName:   f.FileName,
			Status:     f.Status,
			FileStatus: f.FileStatus,
			Target:     f.Target,
			Message:    f.Message,
		}
		if f.Artifact != nil {
			artifact := toHTTPArtifact(*f.Artifact)
			outcome.Artifact = &artifact
		}
		outcomes = append(outcomes, outcome)
	}

	return BatchResponse{
		Files:     outcomes,
		Converted: result.Converted,
		message:   result.Message,
	}, nil
}

func (h *HTTPEndpoint) Download(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Artifact(ctx, pkgrouter.GetParam(ctx, "session_id"), pkgrouter.GetParam(ctx, "artifact_id"))
	if err != nil {
		return nil, err
	}

	return pkgrouter.Raw{
		ContentType: result.MIME,
		Filename:    result.FileName,
		Body:        result.Content,
	}, nil
}

func formatKB(kb float64) string {
	return fmt.Sprintf("%.2f", kb)
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return pkgerror.NewInvalidFormat()
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, v); err != nil {
		return pkgerror.NewInvalidFormat()
	}

	return nil
}

// extractUploadedFiles reads every file part named "files" or "file" in
// upload order.
func extractUploadedFiles(r *http.Request) ([]entity.UploadedFile, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var files []entity.UploadedFile
	for {
		part, err := reader.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, uploadErr(err)
		}

		name := part.FormName()
		if (name != "files" && name != "file") || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, uploadErr(err)
		}

		files = append(files, entity.UploadedFile{
			Name:    filepath.Base(part.FileName()),
			Size:    int64(len(content)),
			Content: content,
		})
	}

	if len(files) == 0 {
		return nil, pkgerror.NewInvalidInput(errors.New("files part is required"))
	}

	return files, nil
}

func uploadErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return pkgerror.NewTooLarge(err)
	}
	return pkgerror.NewInvalidFormat()
}
