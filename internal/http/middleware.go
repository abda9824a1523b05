// Package http provides the HTTP server implementation and route wiring.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware logs HTTP requests with structured logging.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
			slog.String("request_id", requestid.Get(c)),
		)
	}
}

// HealthHandler returns a simple liveness check handler.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// ReadinessHandler returns a readiness check handler.
func ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Report not ready once the request context has been cancelled
		// (the server is shutting down).
		select {
		case <-c.Request.Context().Done():
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		}
	}
}
