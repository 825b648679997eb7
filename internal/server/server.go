package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/esports-dashboard/internal/config"
	"github.com/preston-bernstein/esports-dashboard/internal/directory"
	"github.com/preston-bernstein/esports-dashboard/internal/fetcher"
	"github.com/preston-bernstein/esports-dashboard/internal/follow"
	httpserver "github.com/preston-bernstein/esports-dashboard/internal/http"
	"github.com/preston-bernstein/esports-dashboard/internal/http/handlers"
	"github.com/preston-bernstein/esports-dashboard/internal/hub"
	"github.com/preston-bernstein/esports-dashboard/internal/kv"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/metrics"
	"github.com/preston-bernstein/esports-dashboard/internal/providers"
	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
	"github.com/preston-bernstein/esports-dashboard/internal/timeutil"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	kv            kv.Store
	follows       *follow.Store
	board         *render.Board
	hub           *hub.Hub
	httpServer    httpServer
	metricsServer httpServer
	controller    Controller
	metricsStop   func(context.Context) error
}

// New constructs a server with the configured source, follow store and refresh controller.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithSource(cfg, logger, nil, nil)
}

func newServerWithSource(cfg config.Config, logger *slog.Logger, source providers.DataSource, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	store, err := kv.Open(cfg.Follows.Backend, cfg.Follows.Path)
	if err != nil {
		return nil, fmt.Errorf("open follow store: %w", err)
	}
	if source == nil {
		source = selectSource(cfg, logger)
	}

	follows := follow.NewStore(store, cfg.Follows.Key, logger, recorder)
	loaded := follows.Load(context.Background())
	logging.Info(logger, "follow set loaded", slog.Int(logging.FieldCount, loaded.Len()))
	dir := directory.New(source, logger)
	board := render.NewBoard()
	renderer := render.NewRenderer(timeutil.ResolveLocation(cfg.Display.Timezone), cfg.Display.TimeLayout)
	ctrl := refresh.New(refresh.Options{
		Fetcher:  fetcher.New(source, logger, recorder),
		Follows:  follows,
		Renderer: renderer,
		Board:    board,
		Logger:   logger,
		Metrics:  recorder,
		Interval: cfg.RefreshInterval,
		Controls: render.Controls{
			Region:       cfg.Controls.Region,
			Game:         cfg.Controls.Game,
			OnlyFollowed: cfg.Controls.OnlyFollowed,
		},
	})
	svc := dashboard.NewService(follows, dir, ctrl, board)
	wsHub := hub.New(hub.Config{
		Service:        svc,
		Views:          board,
		Logger:         logger,
		SearchDebounce: cfg.SearchDebounce,
		CheckOrigin:    originChecker(cfg.CORSOrigins),
	})
	httpSrv := buildHTTPServer(cfg, svc, wsHub, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		kv:            store,
		follows:       follows,
		board:         board,
		hub:           wsHub,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		controller:    ctrl,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, ctrl Controller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		controller: ctrl,
	}
}

func buildHTTPServer(cfg config.Config, svc *dashboard.Service, wsHub *hub.Hub, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:        handlers.NewHandler(svc, logger),
		Hub:            wsHub,
		Logger:         logger,
		Metrics:        recorder,
		AllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return netHTTPServer{srv: srv}
}

// originChecker allows every origin for a wildcard list and otherwise requires an exact match.
// Requests without an Origin header are not browser cross-origin requests and are allowed.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[strings.ToLower(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

// Run starts the controller and HTTP server, then waits for context cancellation to
// shut down gracefully. The follow set is already hydrated by construction.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.controller.Start(ctx)
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", slog.Any("err", err))
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", slog.Any("err", err))
		}
	}

	if err := s.controller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop refresh controller", err)
	}

	// Hijacked websocket connections are not tracked by http.Server.Shutdown.
	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.kv != nil {
		if err := s.kv.Close(); err != nil {
			logging.Warn(s.logger, "follow store close failed", slog.Any("err", err))
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", slog.Any("err", err))
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", slog.Any("err", err))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
