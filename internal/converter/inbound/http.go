package inbound

import (
	"context"
	_ "embed"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/converter/usecase"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgrouter"
)

//go:embed web/index.html
var indexHTML []byte

type uc interface {
	CreateSession(ctx context.Context, files []entity.UploadedFile) (usecase.SessionResult, error)
	GetSession(ctx context.Context, sessionID string) (usecase.SessionResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Preview(ctx context.Context, sessionID, fileName string, rows int) (usecase.PreviewResult, error)
	SetCleaning(ctx context.Context, sessionID, fileName string, opts entity.CleaningOptions) (usecase.CleaningResult, error)
	Chart(ctx context.Context, sessionID, fileName string) (usecase.ChartResult, error)
	Convert(ctx context.Context, sessionID string, req usecase.ConvertRequest) (usecase.BatchResult, error)
	Artifact(ctx context.Context, sessionID, artifactID string) (usecase.DownloadResult, error)
}

// Options tunes the HTTP surface.
type Options struct {
	// MaxUploadBytes caps the upload request body; zero means no cap.
	MaxUploadBytes int64
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, opts Options) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/", end.Index)

	r.POST("/sessions", end.CreateSession, pkgrouter.LimitBody(opts.MaxUploadBytes))
	r.GET("/sessions/:session_id", end.GetSession)
	r.DELETE("/sessions/:session_id", end.DeleteSession)

	r.GET("/sessions/:session_id/files/:file_name/preview", end.Preview) // ?rows=&format=text
	r.PUT("/sessions/:session_id/files/:file_name/cleaning", end.Cleaning)
	r.GET("/sessions/:session_id/files/:file_name/chart", end.Chart) // ?format=html

	r.POST("/sessions/:session_id/conversions", end.Convert)
	r.GET("/sessions/:session_id/artifacts/:artifact_id", end.Download)
}
