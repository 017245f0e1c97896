package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stocklens/internal/config"
	"stocklens/internal/infrastructure"
	"stocklens/internal/services"
	transporthttp "stocklens/internal/transport/http"
	"stocklens/internal/websocket"
)

// Application wires the dashboard server: config, logging, telemetry, the
// websocket hub, the artifact store, and the HTTP router.
type Application struct {
	config   *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	otel     *infrastructure.OTelProviders
	hub      *websocket.Hub
	store    *services.ArtifactStore
	pipeline *services.PipelineService
	server   *http.Server
}

// NewApplication builds the application from a loaded configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	hub := websocket.NewHub(logger)
	store := services.NewArtifactStore(paths, logger)
	pipeline := services.NewPipelineService(paths, logger, hub, store)

	app := &Application{
		config:   cfg,
		paths:    paths,
		logger:   logger.With(slog.String("component", "app")),
		otel:     providers,
		hub:      hub,
		store:    store,
		pipeline: pipeline,
	}
	app.createServer()
	return app, nil
}

func (a *Application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	artifactHandler := transporthttp.NewArtifactHandler(a.store, a.logger)
	pipelineHandler := transporthttp.NewPipelineHandler(a.pipeline, a.logger)
	healthHandler := transporthttp.NewHealthHandler(a.store, a.pipeline)
	wsHandler := transporthttp.NewWebSocketHandler(a.hub, a.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Mount("/artifacts", artifactHandler.Routes())
		r.Mount("/pipeline", pipelineHandler.Routes())
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", wsHandler.ServeHTTP)

	return r
}

func (a *Application) createServer() {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.setupRouter(),
		ReadTimeout:  parseDuration(a.config.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: parseDuration(a.config.Server.WriteTimeout, 15*time.Second),
	}
}

// parseDuration falls back to def for empty or malformed values; server
// startup should not fail over a timeout string.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Start runs the hub, loads artifacts, and serves HTTP until ctx is done.
func (a *Application) Start(ctx context.Context) error {
	a.hub.Start()
	a.store.Load(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return a.Stop()
	}
}

// Stop shuts the server and hub down gracefully.
func (a *Application) Stop() error {
	timeout := parseDuration(a.config.Server.ShutdownTimeout, 30*time.Second)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.logger.Info("shutting down")
	err := a.server.Shutdown(shutdownCtx)
	a.hub.Stop()
	if a.otel != nil {
		if oerr := a.otel.Shutdown(shutdownCtx); oerr != nil && err == nil {
			err = oerr
		}
	}
	infrastructure.CloseLogFile()
	return err
}
