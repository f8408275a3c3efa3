package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/fileconv/internal/converter"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.converter.enabled") {
		closer, err := converter.New(converter.Dependency{
			Config:     a.config,
			Router:     a.router,
			SessionID:  a.uuid,
			ArtifactID: a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module converter", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Sessions"] = closer
		}
	}
}
