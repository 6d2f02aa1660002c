package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"skucheck/internal/config"
	apierrors "skucheck/internal/errors"
	"skucheck/internal/exporter"
	"skucheck/internal/infrastructure"
	customMiddleware "skucheck/internal/middleware"
	"skucheck/internal/services"
	handlers "skucheck/internal/transport/http"
	ws "skucheck/internal/websocket"
	"skucheck/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config            *config.Config
	Paths             *config.Paths
	Router            *chi.Mux
	Server            *http.Server
	WebSocketHub      *ws.Hub // nil when websocket.enabled is false
	ValidationService *services.ValidationService
	HealthService     *services.HealthService
	ErrorHandler      *apierrors.ErrorHandler
	OTelProviders     *infrastructure.OTelProviders
	Metrics           *infrastructure.BusinessMetrics
	Logger            *slog.Logger
}

// NewApplication wires the server from an already loaded configuration
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()))

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.Debug("Paths resolved",
		slog.String("base_dir", paths.BaseDir),
		slog.String("exports_dir", paths.ExportsDir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		OTelProviders: otelProviders,
		Metrics:       metrics,
		Logger:        logger,
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	var publisher ws.Publisher
	if a.Config.WebSocket.Enabled {
		hub := ws.NewHub(a.Logger)
		hub.Start()
		a.WebSocketHub = hub
		publisher = hub
	}

	a.ValidationService = services.NewValidationService(
		a.Config.Columns,
		publisher,
		a.Metrics,
		a.OTelProviders.Tracer,
		a.Logger,
	)
	a.HealthService = services.NewHealthService(a.Paths, a.WebSocketHub, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	// Set before mounting so subrouters inherit them
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// These don't wrap the ResponseWriter, so they are safe for the upgrade
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	if a.WebSocketHub != nil {
		wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
		r.With(customMiddleware.StructuredLogger(a.Logger)).Handle("/ws", wsHandler)
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → logging/recovery → headers → limits
		r.Use(otelMiddleware.Handler)
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.MaxBodySize(a.Config.Upload.MaxBytes))

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.With(apierrors.RecoveryMiddleware(a.ErrorHandler)).Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		handlers.NewHealthHandler(a.HealthService, a.Logger).RegisterRoutes(r)

		format, err := exporter.ParseFormat(a.Config.Upload.DefaultFormat)
		if err != nil {
			a.Logger.Warn("Invalid default export format, using json",
				slog.String("format", a.Config.Upload.DefaultFormat))
			format = exporter.FormatJSON
		}
		handlers.NewValidateHandler(a.ValidationService, format, a.ErrorHandler, a.Logger).RegisterRoutes(r)
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start listens on the configured address and blocks until the server stops
func (a *Application) Start() error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after a graceful Stop.
func (a *Application) Serve(ln net.Listener) error {
	a.Logger.Info("Server listening",
		slog.String("address", ln.Addr().String()),
		slog.Bool("websocket", a.WebSocketHub != nil))

	if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, then the hub and telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down server")

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}

	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}

	if len(errs) == 0 {
		a.Logger.Info("Server stopped")
	}
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down within the configured shutdown timeout
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.runOn(ctx, ln)
}

func (a *Application) runOn(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		a.Logger.Info("Shutdown signal received")
	}

	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return a.Stop(shutdownCtx)
}
