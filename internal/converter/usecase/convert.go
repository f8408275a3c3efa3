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

// Convert exports every loaded file of a session to its target format. A
// file that is not loaded, or fails to export, is reported in the result
// and does not stop the others.
func (u *Usecase) Convert(ctx context.Context, sessionID string, req ConvertRequest) (BatchResult, error) {
	if sessionID == "" {
		return BatchResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	if u.artifactID == nil {
		return BatchResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	fallback := entity.FormatCSV
	if req.Target != "" {
		f, err := codec.ParseTarget(req.Target)
		if err != nil {
			return BatchResult{}, pkgerror.NewInvalidInput(err)
		}
		fallback = f
	}

	targets := make(map[string]entity.Format, len(req.Targets))
	for name, label := range req.Targets {
		f, err := codec.ParseTarget(label)
		if err != nil {
			return BatchResult{}, pkgerror.NewInvalidInput(fmt.Errorf("%s: %w", name, err))
		}
		targets[name] = f
	}

	var result BatchResult
	err := u.store.Update(ctx, sessionID, func(session *entity.Session) error {
		for name := range targets {
			if _, ok := session.File(name); !ok {
				return pkgerror.NewInvalidInput(fmt.Errorf("unknown file %q", name))
			}
		}

		now := u.clock.Now()
		for _, file := range session.Files {
			target, ok := targets[file.Upload.Name]
			if !ok {
				target = fallback
			}

			outcome := u.convertFile(ctx, session, file, target, now)
			if outcome.Status == OutcomeConverted {
				result.Converted++
			}
			result.Files = append(result.Files, outcome)
		}

		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return BatchResult{}, mapStoreErr(err)
	}

	result.Message = "no files were converted"
	if result.Converted > 0 {
		result.Message = "file processing complete"
	}

	slog.InfoContext(ctx, "conversion finished", "session_id", sessionID, "converted", result.Converted, "files", len(result.Files))

	return result, nil
}

func (u *Usecase) convertFile(ctx context.Context, session *entity.Session, file *entity.SessionFile, target entity.Format, now time.Time) FileOutcome {
	name := file.Upload.Name
	outcome := FileOutcome{
		FileName: name,
		Target:   target,
	}

	if !file.Ready() {
		outcome.Status = OutcomeSkipped
		outcome.FileStatus = file.Status
		outcome.Message = file.Message
		return outcome
	}

	c, ok := codec.Lookup(target)
	if !ok {
		outcome.Status = OutcomeFailed
		outcome.Message = fmt.Sprintf("error converting %s: %v", name, codec.ErrUnknownFormat)
		return outcome
	}

	content, err := c.Encode(file.Current)
	if err != nil {
		slog.WarnContext(ctx, "file conversion failed", "session_id", session.ID, "file_name", name, "target", target, "error", err)

		outcome.Status = OutcomeFailed
		outcome.Message = fmt.Sprintf("error converting %s: %v", name, err)
		return outcome
	}

	artifact := &entity.Artifact{
		ID:         pkguid.FormatNumber(u.artifactID.Generate()),
		SourceName: name,
		FileName:   codec.OutputName(name, target),
		MIME:       c.MIME,
		Target:     target,
		Content:    content,
		CreatedAt:  now,
	}
	session.PutArtifact(artifact)

	summary := summarizeArtifact(artifact)
	outcome.Status = OutcomeConverted
	outcome.Message = fmt.Sprintf("%s successfully converted to %s", name, c.Label)
	outcome.Artifact = &summary

	return outcome
}
