// Package server wires the admin HTTP API: router, middleware and listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/TabletOS/backend/internal/api/http"
	"github.com/GriffinCanCode/TabletOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/TabletOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/tablet"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

const (
	// shutdownTimeout bounds graceful shutdown of the listener
	shutdownTimeout = 5 * time.Second

	gzipMinSize = 512
	streamPath  = "/stream"
)

// Options configures the admin server
type Options struct {
	Admin       config.AdminConfig
	Language    string
	Development bool
	Catalog     *text.Catalog
	Metrics     *monitoring.Metrics
	Gatherer    prometheus.Gatherer
	FrameStats  *monitoring.FrameStats
	Logger      *zap.Logger
}

// Server wraps the admin HTTP router and its dependencies
type Server struct {
	router  *gin.Engine
	handler http.Handler
	addr    string
	logger  *zap.Logger
}

// New creates the admin server for device
func New(device *tablet.Device, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !opts.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	if opts.Metrics != nil {
		router.Use(monitoring.Middleware(opts.Metrics))
	}
	if len(opts.Admin.AllowOrigins) > 0 {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig(opts.Admin.AllowOrigins)))
	}
	if opts.Admin.RateLimit {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", opts.Admin.RequestsPerSec),
			zap.Int("burst", opts.Admin.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: opts.Admin.RequestsPerSec,
			Burst:             opts.Admin.Burst,
		}))
	}

	handlers := api.NewHandlers(device, opts.Catalog, opts.Language, opts.Metrics).WithFrameStats(opts.FrameStats)
	wsHandler := ws.NewHandler(device, logger).WithOriginCheck(originCheck(opts.Admin.AllowOrigins))

	// Register routes
	router.GET("/health", handlers.Health)

	// App management
	router.GET("/apps", handlers.ListApps)
	router.GET("/apps/active", handlers.ActiveApp)
	router.GET("/apps/:id", handlers.GetApp)
	router.POST("/apps/:id/open", handlers.OpenApp)
	router.POST("/apps/close", handlers.CloseApp)

	// Input
	router.POST("/input/mouse", handlers.MouseInput)
	router.POST("/input/key", handlers.KeyInput)

	router.GET("/frame", handlers.Frame)
	router.GET("/resources", handlers.ListResources)

	// WebSocket
	router.GET(streamPath, wsHandler.HandleConnection)

	// Metrics endpoints
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	router.GET("/metrics/json", handlers.MetricsJSON)
	router.GET("/metrics/frames", handlers.FrameTimes)

	compress, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		panic(err)
	}
	compressed := compress(router)

	// The stream upgrade needs the raw connection
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == streamPath {
			router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})

	return &Server{
		router:  router,
		handler: handler,
		addr:    opts.Admin.Addr(),
		logger:  logger,
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// originCheck accepts requests without Origin, same-host origins and allowed
func originCheck(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting admin server", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down admin server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
