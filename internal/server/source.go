package server

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/esports-dashboard/internal/config"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
	"github.com/preston-bernstein/esports-dashboard/internal/providers/backend"
	"github.com/preston-bernstein/esports-dashboard/internal/providers/fixture"
)

func selectSource(cfg config.Config, logger *slog.Logger) providers.DataSource {
	switch cfg.Backend.Source {
	case config.SourceFixture, "":
		return fixture.New()
	case config.SourceHTTP:
		return backend.NewClient(backend.Config{
			BaseURL:      cfg.Backend.BaseURL,
			UpcomingPath: cfg.Backend.UpcomingPath,
			LivePath:     cfg.Backend.LivePath,
			HTTPClient:   &http.Client{Timeout: cfg.Backend.Timeout},
			Logger:       logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown backend source, falling back to fixture", slog.String("source", cfg.Backend.Source))
		}
		return fixture.New()
	}
}
