// Package http provides the HTTP server implementation and route wiring.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/xenoISA/isa-vault/internal/metrics"
	vaultHTTP "github.com/xenoISA/isa-vault/internal/vault/http"
)

// ServerConfig carries the optional middleware settings of the API server.
type ServerConfig struct {
	// CORSEnabled turns on the CORS middleware (off by default: the vault is
	// designed as a server-to-server API).
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins string

	// RateLimitEnabled turns on per-caller rate limiting.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate allowed per caller.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst capacity per caller.
	RateLimitBurst int

	// MetricsNamespace prefixes the HTTP metrics instruments.
	MetricsNamespace string
	// MeterProvider enables HTTP request metrics when non-nil.
	MeterProvider otelmetric.MeterProvider
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server and registers all vault routes.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
	cfg ServerConfig,
	secretHandler *vaultHTTP.SecretHandler,
	shareHandler *vaultHTTP.ShareHandler,
	auditHandler *vaultHTTP.AuditHandler,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); cors != nil {
		router.Use(cors)
	}

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	// Unauthenticated health endpoints
	router.GET("/health", HealthHandler())
	router.GET("/ready", ReadinessHandler())

	// All vault routes require a caller identity
	v1 := router.Group("/v1")
	v1.Use(vaultHTTP.CallerIdentityMiddleware(logger))
	if cfg.RateLimitEnabled {
		v1.Use(vaultHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	v1.POST("/secrets", secretHandler.CreateHandler)
	v1.GET("/secrets", secretHandler.ListHandler)
	v1.GET("/secrets/:vault_id", secretHandler.GetHandler)
	v1.PATCH("/secrets/:vault_id", secretHandler.UpdateHandler)
	v1.DELETE("/secrets/:vault_id", secretHandler.DeleteHandler)
	v1.POST("/secrets/:vault_id/rotate", secretHandler.RotateHandler)

	v1.POST("/secrets/:vault_id/shares", shareHandler.CreateHandler)
	v1.GET("/shares", shareHandler.ListSharedWithHandler)
	v1.DELETE("/shares/:share_id", shareHandler.RevokeHandler)

	v1.GET("/secrets/:vault_id/audit", auditHandler.ListByVaultHandler)
	v1.GET("/audit", auditHandler.ListByActorHandler)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
