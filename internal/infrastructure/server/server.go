package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/GriffinCanCode/novashell/internal/api/http"
	"github.com/GriffinCanCode/novashell/internal/api/middleware"
	"github.com/GriffinCanCode/novashell/internal/api/ws"
	"github.com/GriffinCanCode/novashell/internal/domain/catalog"
	"github.com/GriffinCanCode/novashell/internal/domain/device"
	"github.com/GriffinCanCode/novashell/internal/domain/monitor"
	"github.com/GriffinCanCode/novashell/internal/domain/shell"
	"github.com/GriffinCanCode/novashell/internal/grpc"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/config"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/novashell/internal/infrastructure/monitoring"
)

// shutdownTimeout bounds how long in-flight requests may take to drain
const shutdownTimeout = 5 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	health     *grpc.HealthServer
	store      *device.Store
	navigator  *shell.Navigator
	catalog    *catalog.Catalog
	monitor    *monitor.Monitor
	metrics    *monitoring.Metrics
	logger     *logging.Logger
	config     *config.Config
	closeOnce  sync.Once
}

// NewServer creates a new server instance. The device store is built here and
// lives until Close.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing NovaShell server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()
	mon := monitor.New(cfg.Monitor.History)

	cat := catalog.Default()
	if cfg.Shell.Catalog != "" {
		loaded, err := catalog.Load(cfg.Shell.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load app catalog: %w", err)
		}
		cat = loaded
	}
	logger.Info("App catalog loaded", zap.Int("apps", cat.Len()))

	opts := []device.Option{
		device.WithLogger(logger.Logger),
		device.WithTickInterval(cfg.Simulation.TickInterval),
		device.WithTipDelay(cfg.Simulation.TipDelay),
		device.WithTips(cat.Tips()),
		device.WithRecorder(metrics),
		device.WithRecorder(mon),
	}
	if cfg.Simulation.Seed != 0 {
		opts = append(opts, device.WithSeed(cfg.Simulation.Seed))
	}
	store := device.New(opts...)

	pinHash, err := shell.HashPIN(cfg.Shell.PIN, bcrypt.DefaultCost)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}
	navigator := shell.NewNavigator(store, cat, pinHash).WithLogger(logger.Logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
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
	router.Use(middleware.Store(store))

	handlers := apihttp.NewHandlers(navigator, cat, mon, metrics)
	handlers.Register(router)

	wsHandler := ws.NewHandler(navigator, metrics, logger.Component("ws"))
	router.GET("/stream", wsHandler.HandleConnection)

	metricsAggregator := apihttp.NewMetricsAggregator(metrics, mon, navigator)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/summary", metricsAggregator.GetAggregatedMetrics)

	handler, err := compress(router)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &Server{
		router:    router,
		handler:   handler,
		store:     store,
		navigator: navigator,
		catalog:   cat,
		monitor:   mon,
		metrics:   metrics,
		logger:    logger,
		config:    cfg,
	}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.GRPC.Enabled {
		s.health = grpc.NewHealthServer(logger.Component("grpc"))
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// compress gzips every route except the WebSocket stream, which must reach
// gin with a hijackable writer
func compress(router http.Handler) (http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(256))
	if err != nil {
		return nil, fmt.Errorf("failed to build gzip wrapper: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", router)
	mux.Handle("/", wrap(router))
	return mux, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the device store owned by the server
func (s *Server) Store() *device.Store {
	return s.store
}

// Navigator returns the shell navigator
func (s *Server) Navigator() *shell.Navigator {
	return s.navigator
}

// Run starts the simulation clock, the gRPC health service and the HTTP
// server, and blocks until ctx is cancelled or one of them fails.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	go func() {
		if err := s.store.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("device store: %w", err)
		}
	}()

	if s.health != nil {
		addr := net.JoinHostPort(s.config.Server.Host, s.config.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Join(fmt.Errorf("failed to listen on %s: %w", addr, err), s.Close())
		}
		go s.health.Track(s.store)
		go func() {
			if err := s.health.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		s.logger.Error("Server component failed", zap.Error(runErr))
	}

	return errors.Join(runErr, s.Close())
}

// Close drains HTTP, stops gRPC and tears the store down. Safe to call twice.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			s.logger.Error("Failed to shut down HTTP server", zap.Error(shutdownErr))
			err = fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr)
		}

		// Closing the store ends every WebSocket stream and flips health
		s.store.Close()
		if s.health != nil {
			s.health.Stop()
		}

		s.logger.Sync()
	})
	return err
}
