package converter

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/inbound"
	"github.com/shandysiswandi/fileconv/internal/converter/store"
	"github.com/shandysiswandi/fileconv/internal/converter/usecase"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkguid"
)

const (
	defaultMaxUploadBytes = 50 << 20
	defaultMaxFiles       = 20
	defaultMaxSessions    = 256
	defaultSessionTTL     = 30 * time.Minute
)

type Dependency struct {
	Config     pkgconfig.Config
	Router     *pkgrouter.Router
	SessionID  pkguid.StringID
	ArtifactID pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("converter: config and router are required")
	}

	if dep.SessionID == nil {
		dep.SessionID = pkguid.NewUUID()
	}

	if dep.ArtifactID == nil {
		sf, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		dep.ArtifactID = sf
	}

	storage := store.NewInMemoryStore(
		positiveInt(dep.Config.GetInt("converter.max_sessions"), defaultMaxSessions),
		positiveDuration(dep.Config.GetDuration("converter.session_ttl"), defaultSessionTTL),
	)

	uc := usecase.New(usecase.Dependency{
		Store:       storage,
		SessionID:   dep.SessionID,
		ArtifactID:  dep.ArtifactID,
		MaxFiles:    positiveInt(dep.Config.GetInt("converter.max_files"), defaultMaxFiles),
		PreviewRows: int(dep.Config.GetInt("converter.preview_rows")),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.Options{
		MaxUploadBytes: int64(positiveInt(dep.Config.GetInt("converter.max_upload_bytes"), defaultMaxUploadBytes)),
	})

	return func(context.Context) error {
		return storage.Close()
	}, nil
}

func positiveInt(v int64, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return int(v)
}

func positiveDuration(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
