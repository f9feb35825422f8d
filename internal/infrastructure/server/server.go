package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/PolyChat/backend/internal/api/http"
	"github.com/GriffinCanCode/PolyChat/backend/internal/api/middleware"
	"github.com/GriffinCanCode/PolyChat/backend/internal/api/ws"
	"github.com/GriffinCanCode/PolyChat/backend/internal/bridge"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/pane"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/prompt"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/provider"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/session"
	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/window"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
)

// ShutdownTimeout bounds graceful HTTP shutdown
const ShutdownTimeout = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	backend    storage.Backend
	hub        *ws.Handler
	bridge     *bridge.Bridge
	panes      *pane.Manager
	sessions   *session.Controller
	window     *window.Controller
	templates  *prompt.Templates
	dispatcher *prompt.Dispatcher

	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// NewLogger builds the process logger from configuration
func NewLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" && !cfg.Logging.Development {
		logCfg.Level = cfg.Logging.Level
	}
	logCfg.File = cfg.Logging.File
	logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.MaxAgeDays = cfg.Logging.MaxAgeDays
	return logging.New(logCfg)
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, version string) (*Server, error) {
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing PolyChat core",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("version", version),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	tracer := tracing.New("polychat", logger.Component("tracing"))

	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	sessionsDoc, err := backend.Document(paths.SessionsDocument)
	if err != nil {
		_ = backend.Close()
		tracer.Close()
		return nil, err
	}
	promptsDoc, err := backend.Document(paths.PromptsDocument)
	if err != nil {
		_ = backend.Close()
		tracer.Close()
		return nil, err
	}

	registry := provider.NewRegistry()
	if cfg.Providers.File != "" {
		n, err := registry.LoadOverrides(cfg.Providers.File)
		if err != nil {
			logger.Warn("Failed to load provider overrides", zap.String("file", cfg.Providers.File), zap.Error(err))
		} else {
			logger.Info("Provider overrides loaded", zap.Int("count", n))
		}
	}

	// The hub is created after the controllers it routes to, so the
	// bridge resolves it lazily. Nothing is sent before Run.
	var hub *ws.Handler
	br := bridge.New(bridge.SenderFunc(func(msgType, msgID string, payload any) error {
		if hub == nil {
			return nil
		}
		return hub.Send(msgType, msgID, payload)
	})).WithLogger(logger.Component("bridge"))

	panes := pane.NewManager(br, registry).
		WithStyler(br).
		WithGeometry(pane.Geometry{HeaderHeight: cfg.Layout.HeaderHeight}).
		WithMetrics(metrics).
		WithLogger(logger.Component("pane"))

	dispatcher := prompt.NewDispatcher(br, prompt.BreakerSettings(cfg.Automation.MaxFailures, cfg.Automation.Cooldown)).
		WithMetrics(metrics).
		WithLogger(logger.Component("automation"))

	defaults := make([]types.ProviderID, 0, len(cfg.Providers.Default))
	for _, p := range cfg.Providers.Default {
		pid := types.ProviderID(p)
		if !registry.Known(pid) {
			logger.Warn("Default provider is not in the registry; restores will skip it", zap.String("provider", p))
		}
		defaults = append(defaults, pid)
	}
	sessions := session.NewController(session.NewStore(sessionsDoc).WithMetrics(metrics).WithLogger(logger.Component("store")), panes, registry, session.Options{
		DefaultProviders: defaults,
		SaveDebounce:     cfg.Layout.SaveDebounce,
		SendSettle:       cfg.Layout.SendSettle,
	}).
		WithBroadcaster(dispatcher).
		WithMetrics(metrics).
		WithLogger(logger.Component("session"))

	win := window.NewController(panes, sessions, window.Options{
		ResizeDebounce: cfg.Layout.ResizeDebounce,
		SidebarSettle:  cfg.Layout.SidebarSettle,
		MoveDebounce:   cfg.Layout.MoveDebounce,
		HeaderHeight:   cfg.Layout.HeaderHeight,
	}).
		WithCompanion(br).
		WithLogger(logger.Component("window"))

	templates := prompt.NewTemplates(promptsDoc).
		WithMetrics(metrics).
		WithLogger(logger.Component("templates"))

	hub = ws.NewHandler(sessions, win).
		WithMetrics(metrics).
		WithTracer(tracer).
		WithLogger(logger.Component("ws")).
		OnConnect(func() { br.Resync(panes.List()) })

	panes.WithPublisher(hub)
	sessions.WithPublisher(hub)
	win.WithPublisher(hub)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Sessions:   sessions,
		Panes:      panes,
		Providers:  registry,
		Window:     win,
		Templates:  templates,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Tracer:     tracer,
		Clients:    hub.Clients,
		Version:    version,
	})
	apihttp.RegisterRoutes(router, handlers)
	router.GET("/ws", hub.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router:     router,
		backend:    backend,
		hub:        hub,
		bridge:     br,
		panes:      panes,
		sessions:   sessions,
		window:     win,
		templates:  templates,
		dispatcher: dispatcher,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		tracer:     tracer,
	}, nil
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Sessions exposes the session controller
func (s *Server) Sessions() *session.Controller {
	return s.sessions
}

// Restore reopens the active session's panes
func (s *Server) Restore(ctx context.Context) error {
	active, err := s.sessions.RestoreAtStartup(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}
	s.logger.Info("Sessions restored",
		zap.String("active", string(active)),
		zap.Int("panes", s.panes.Len()),
	)
	return nil
}

// Run restores the last session, serves HTTP until ctx is cancelled and
// then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if err := s.Restore(ctx); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	// The final layout save needs the panes, so it runs before the hub goes
	s.window.Close()
	s.sessions.Close()
	s.hub.Close()
	s.tracer.Close()

	var errs []error
	if err := s.backend.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}
	if err := s.logger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}
	return errors.Join(errs...)
}
