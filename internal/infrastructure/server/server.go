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

	apihttp "github.com/GriffinCanCode/giroscopio/internal/api/http"
	"github.com/GriffinCanCode/giroscopio/internal/api/middleware"
	"github.com/GriffinCanCode/giroscopio/internal/api/ws"
	"github.com/GriffinCanCode/giroscopio/internal/domain/actions"
	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/config"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/giroscopio/internal/shared/id"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	hub        *ws.Hub
	tracker    *stats.Tracker
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	instanceID string
}

// Option customizes server construction.
type Option func(*options)

type options struct {
	launcher actions.Launcher
	logger   *logging.Logger
}

// WithLauncher replaces the OS launcher, e.g. with a fake in tests.
func WithLauncher(l actions.Launcher) Option {
	return func(o *options) { o.launcher = l }
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
	}
	instanceID := id.NewInstanceID().String()

	logger.Info("Initializing remote control agent",
		zap.String("instance_id", instanceID),
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Strings("shell", cfg.Actions.Shell()),
		zap.Duration("command_timeout", cfg.Actions.CommandTimeout),
	)

	catalog, err := actions.LoadCatalog(cfg.Actions.PathsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load path table: %w", err)
	}
	if cfg.Actions.PathsFile != "" {
		logger.Info("Loaded path table overrides", zap.String("file", cfg.Actions.PathsFile))
	}

	launcher := o.launcher
	if launcher == nil {
		launcher = actions.NewOSLauncher()
	}

	metrics := monitoring.NewMetrics()
	tracker := stats.NewTracker()
	executor := actions.NewExecutor(actions.Config{
		Catalog:        catalog,
		Shell:          cfg.Actions.Shell(),
		CommandTimeout: cfg.Actions.CommandTimeout,
	}, launcher, logger.Logger)
	hub := ws.NewHub(tracker, logger, metrics)

	if !cfg.Actions.AllowCustom {
		logger.Warn("Custom application launches are disabled")
	}
	if !cfg.Actions.AllowCommand {
		logger.Warn("Shell commands are disabled")
	}

	handlers := apihttp.NewHandlers(
		executor,
		tracker,
		logger,
		apihttp.NewHandlerMetrics(metrics),
		hub,
		apihttp.Options{
			AllowCustom:  cfg.Actions.AllowCustom,
			AllowCommand: cfg.Actions.AllowCommand,
			InstanceID:   instanceID,
		},
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	// Device identity is the socket peer; forwarded headers are not trusted.
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to configure trusted proxies: %w", err)
	}

	router.Use(middleware.RequestID())
	router.Use(logging.AccessLog(logger))
	router.Use(apihttp.Recovery(logger))
	router.Use(monitoring.Middleware(metrics))
	corsPolicy, err := middleware.NewCORSPolicy(cfg.CORS.Origins)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS origins: %w", err)
	}
	router.Use(middleware.CORS(corsPolicy))
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

	router.NoRoute(apihttp.NotFound)
	router.NoMethod(apihttp.MethodNotAllowed)

	handlers.Register(router.Group(cfg.Server.APIPrefix), hub)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server initialized successfully", zap.String("addr", addr))

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		hub:        hub,
		tracker:    tracker,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		instanceID: instanceID,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// InstanceID identifies this process in health responses.
func (s *Server) InstanceID() string {
	return s.instanceID
}

// Tracker returns the process-wide statistics.
func (s *Server) Tracker() *stats.Tracker {
	return s.tracker
}

// Run starts the HTTP server and blocks until it stops. A clean Shutdown
// returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("api_prefix", s.config.Server.APIPrefix),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, closing stream subscribers first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	s.hub.Close()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	snap := s.tracker.Snapshot()
	totals := s.metrics.Snapshot()
	s.logger.Info("Server stopped",
		zap.Int64("total_requests", snap.TotalRequests),
		zap.Int64("total_actions", snap.TotalActions),
		zap.Int("devices", s.tracker.DeviceCount()),
		zap.Int64("http_errors", totals.TotalErrors),
		zap.Int64("action_failures", totals.ActionFailures),
		zap.Duration("uptime", s.metrics.Uptime()),
	)
	_ = s.logger.Sync()

	return err
}
