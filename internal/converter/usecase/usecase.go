package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/codec"
	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkguid"
)

const (
	defaultPreviewRows = 5
	maxPreviewRows     = 100
)

type Store interface {
	Create(ctx context.Context, session *entity.Session) error
	View(ctx context.Context, sessionID string, fn func(session *entity.Session) error) error
	Update(ctx context.Context, sessionID string, fn func(session *entity.Session) error) error
	Delete(ctx context.Context, sessionID string) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store       Store
	Clock       Clock
	SessionID   pkguid.StringID
	ArtifactID  pkguid.NumberID
	MaxFiles    int
	PreviewRows int
}

type Usecase struct {
	store       Store
	clock       Clock
	sessionID   pkguid.StringID
	artifactID  pkguid.NumberID
	maxFiles    int
	previewRows int
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	previewRows := dep.PreviewRows
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}

	return &Usecase{
		store:       dep.Store,
		clock:       clock,
		sessionID:   dep.SessionID,
		artifactID:  dep.ArtifactID,
		maxFiles:    dep.MaxFiles,
		previewRows: min(previewRows, maxPreviewRows),
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// CreateSession loads a batch of uploaded files into a new session. Files
// that cannot be loaded are recorded with their status; they never fail the
// batch.
func (u *Usecase) CreateSession(ctx context.Context, files []entity.UploadedFile) (SessionResult, error) {
	if u.store == nil || u.sessionID == nil {
		return SessionResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if len(files) == 0 {
		return SessionResult{}, pkgerror.NewInvalidInput(errors.New("at least one file is required"))
	}

	if u.maxFiles > 0 && len(files) > u.maxFiles {
		return SessionResult{}, pkgerror.NewInvalidInput(fmt.Errorf("at most %d files can be uploaded at once", u.maxFiles))
	}

	now := u.clock.Now()
	session := &entity.Session{
		ID:        u.sessionID.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
		Files:     make([]*entity.SessionFile, 0, len(files)),
	}

	seen := make(map[string]bool, len(files))
	for _, upload := range files {
		file := loadFile(upload, seen[upload.Name])
		seen[upload.Name] = true

		if file.Status != entity.FileStatusReady {
			slog.WarnContext(ctx, "file skipped", "session_id", session.ID, "file_name", upload.Name, "reason", file.Message)
		}

		session.Files = append(session.Files, file)
	}

	if err := u.store.Create(ctx, session); err != nil {
		return SessionResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "session created", "session_id", session.ID, "files", len(session.Files))

	return summarize(session), nil
}

func (u *Usecase) GetSession(ctx context.Context, sessionID string) (SessionResult, error) {
	if sessionID == "" {
		return SessionResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	var result SessionResult
	err := u.store.View(ctx, sessionID, func(session *entity.Session) error {
		result = summarize(session)
		return nil
	})
	if err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	return result, nil
}

func (u *Usecase) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	if err := u.store.Delete(ctx, sessionID); err != nil {
		return mapStoreErr(err)
	}

	return nil
}

// Preview returns the leading rows of a loaded file. A non-positive rows
// uses the configured default.
func (u *Usecase) Preview(ctx context.Context, sessionID, fileName string, rows int) (PreviewResult, error) {
	if sessionID == "" || fileName == "" {
		return PreviewResult{}, pkgerror.NewInvalidInput(errors.New("session_id and file_name are required"))
	}

	if rows <= 0 {
		rows = u.previewRows
	}
	rows = min(rows, maxPreviewRows)

	var result PreviewResult
	err := u.store.View(ctx, sessionID, func(session *entity.Session) error {
		file, err := readyFile(session, fileName)
		if err != nil {
			return err
		}

		t := file.Current
		head := t.Head(rows)
		copied := make([][]any, len(head))
		for i, row := range head {
			copied[i] = append([]any(nil), row...)
		}

		result = PreviewResult{
			FileName:  file.Upload.Name,
			SizeKB:    file.Upload.SizeKB(),
			Format:    file.Format,
			Columns:   append([]entity.Column(nil), t.Columns...),
			TotalRows: t.Len(),
			Rows:      copied,
		}
		return nil
	})
	if err != nil {
		return PreviewResult{}, mapStoreErr(err)
	}

	return result, nil
}

// Artifact returns a converted file for download.
func (u *Usecase) Artifact(ctx context.Context, sessionID, artifactID string) (DownloadResult, error) {
	if sessionID == "" || artifactID == "" {
		return DownloadResult{}, pkgerror.NewInvalidInput(errors.New("session_id and artifact_id are required"))
	}

	var result DownloadResult
	err := u.store.View(ctx, sessionID, func(session *entity.Session) error {
		artifact, ok := session.Artifact(artifactID)
		if !ok {
			return pkgerror.NewNotFound("artifact not found")
		}

		result = DownloadResult{
			FileName: artifact.FileName,
			MIME:     artifact.MIME,
			Content:  artifact.Content,
		}
		return nil
	})
	if err != nil {
		return DownloadResult{}, mapStoreErr(err)
	}

	return result, nil
}

func loadFile(upload entity.UploadedFile, duplicate bool) *entity.SessionFile {
	file := &entity.SessionFile{
		Upload: upload,
		Format: codec.Detect(upload.Name),
	}

	if duplicate {
		file.Status = entity.FileStatusDuplicateName
		file.Message = fmt.Sprintf("%s was already uploaded in this batch", upload.Name)
		return file
	}

	if file.Format == entity.FormatUnknown {
		file.Status = entity.FileStatusUnsupported
		file.Message = fmt.Sprintf("unsupported file type: %s. Please upload CSV, Excel, JSON, or TXT", codec.Extension(upload.Name))
		return file
	}

	table, err := codec.Decode(file.Format, upload.Content)
	if err != nil {
		file.Status = entity.FileStatusParseFailed
		file.Message = fmt.Sprintf("error reading %s: %v", upload.Name, err)
		return file
	}

	if table.IsEmpty() {
		file.Status = entity.FileStatusEmpty
		file.Message = fmt.Sprintf("%s is empty and cannot be processed", upload.Name)
		return file
	}

	file.Status = entity.FileStatusReady
	file.Message = fmt.Sprintf("%s loaded with %d rows", upload.Name, table.Len())
	file.Pristine = table
	file.Current = table.Clone()

	return file
}

// readyFile finds a file that can be cleaned, charted or previewed.
func readyFile(session *entity.Session, fileName string) (*entity.SessionFile, error) {
	file, ok := session.File(fileName)
	if !ok {
		return nil, pkgerror.NewNotFound("file not found")
	}

	if !file.Ready() {
		return nil, pkgerror.NewConflict(file.Message)
	}

	return file, nil
}

func summarize(session *entity.Session) SessionResult {
	result := SessionResult{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Files:     make([]FileSummary, 0, len(session.Files)),
		Artifacts: make([]ArtifactSummary, 0, len(session.Artifacts)),
	}

	for _, file := range session.Files {
		summary := FileSummary{
			Name:     file.Upload.Name,
			SizeKB:   file.Upload.SizeKB(),
			Format:   file.Format,
			Status:   file.Status,
			Message:  file.Message,
			Cleaning: file.Cleaning,
			Notes:    append([]string(nil), file.Notes...),
		}
		if file.Ready() {
			summary.Rows = file.Current.Len()
			summary.Columns = append([]entity.Column(nil), file.Current.Columns...)
		}
		result.Files = append(result.Files, summary)
	}

	for _, artifact := range session.Artifacts {
		result.Artifacts = append(result.Artifacts, summarizeArtifact(artifact))
	}

	return result
}

func summarizeArtifact(artifact *entity.Artifact) ArtifactSummary {
	return ArtifactSummary{
		ID:         artifact.ID,
		SourceName: artifact.SourceName,
		FileName:   artifact.FileName,
		MIME:       artifact.MIME,
		Target:     artifact.Target,
		Size:       artifact.Size(),
		CreatedAt:  artifact.CreatedAt,
	}
}

func mapStoreErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewNotFound("session not found")
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
