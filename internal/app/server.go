// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"medical_assistant_backend/internal/auth"
	"medical_assistant_backend/internal/config"
	"medical_assistant_backend/internal/jobs"
	"medical_assistant_backend/internal/middleware"
	"medical_assistant_backend/internal/patient"
	"medical_assistant_backend/internal/record"
	"medical_assistant_backend/internal/uistate"
	"medical_assistant_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	projector    *uistate.Projector
	retentionJob *jobs.RecordRetentionJob

	// cancels every request context so open streams end before Shutdown drains
	cancelBase context.CancelFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	profiles user.Repository,
	projector *uistate.Projector,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	uiStateHandler *uistate.Handler,
	patientHandler *patient.Handler,
	recordHandler *record.Handler,
	retentionJob *jobs.RecordRetentionJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg.GinMode == gin.ReleaseMode))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	requireLogin := middleware.RequireLogin(profiles, logger.Named("RequireLogin"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Medical assistant API is healthy!"})
	})

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	uiStateHandler.RegisterRoutes(v1)

	signedIn := v1.Group("", requireLogin)
	patientHandler.RegisterRoutes(signedIn)
	recordHandler.RegisterRoutes(signedIn)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE and websocket streams stay open
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		cfg:          cfg,
		logger:       logger,
		projector:    projector,
		retentionJob: retentionJob,
		cancelBase:   cancelBase,
	}, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.retentionJob != nil {
		if err := s.retentionJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start record retention job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.retentionJob != nil {
		s.retentionJob.Stop()
	}
	s.cancelBase()
	err := s.httpServer.Shutdown(ctx)
	if s.projector != nil {
		s.projector.Close()
	}
	return err
}
