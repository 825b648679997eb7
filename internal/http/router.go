package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/esports-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/esports-dashboard/internal/http/middleware"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
)

// RouterConfig carries the collaborators mounted on the router.
type RouterConfig struct {
	Handler        *handlers.Handler
	Hub            nethttp.Handler
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
	AllowedOrigins []string
}

// NewRouter registers the dashboard routes.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			nethttp.MethodGet,
			nethttp.MethodPost,
			nethttp.MethodPut,
			nethttp.MethodDelete,
			nethttp.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	h := cfg.Handler
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
	router.Get("/view", h.View)
	router.Post("/refresh", h.Refresh)

	router.Route("/follows", func(r chi.Router) {
		r.Get("/", h.GetFollows)
		r.Put("/", h.PutFollows)
		r.Post("/{id}", h.AddFollow)
		r.Delete("/{id}", h.RemoveFollow)
	})

	router.Get("/controls", h.GetControls)
	router.Put("/controls", h.PutControls)

	router.Get("/teams", h.ListTeams)
	router.Get("/teams/search", h.SearchTeams)

	if cfg.Hub != nil {
		router.Handle("/ws", cfg.Hub)
	}
	return router
}
