// Package http provides HTTP handlers and middleware for vault operations.
package http

import (
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	"github.com/xenoISA/isa-vault/internal/httputil"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// Identity headers set by the platform gateway after authentication.
const (
	// CallerIDHeader carries the authenticated user identifier.
	CallerIDHeader = "X-Caller-Id"
	// CallerOrgHeader optionally carries the caller's organization identifier.
	CallerOrgHeader = "X-Caller-Org"
)

// CallerIdentityMiddleware extracts the caller identity from request headers.
//
// The vault core trusts the identity headers as-is: authentication happens
// upstream at the platform gateway, which strips any client-supplied identity
// headers before injecting its own. The middleware:
//  1. Reads X-Caller-Id and X-Caller-Org from the request headers
//  2. Rejects requests without a caller identifier with 401 Unauthorized
//  3. Stores the caller in the request context for handlers via GetCaller()
//  4. Propagates the request id into the context for audit correlation
//
// Usage:
//
//	router.Use(requestid.New(), CallerIdentityMiddleware(logger))
//	router.GET("/v1/secrets", handler)
func CallerIdentityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := vaultDomain.Caller{
			ID:             c.GetHeader(CallerIDHeader),
			OrganizationID: c.GetHeader(CallerOrgHeader),
		}
		if !caller.Valid() {
			logger.Debug("caller identity missing",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithCaller(c.Request.Context(), caller)
		if rid := requestid.Get(c); rid != "" {
			ctx = vaultUseCase.WithRequestID(ctx, rid)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
