// Package http provides HTTP handlers and middleware for vault operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xenoISA/isa-vault/internal/httputil"
	"github.com/xenoISA/isa-vault/internal/vault/http/dto"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// AuditHandler handles HTTP requests for audit trail retrieval.
type AuditHandler struct {
	auditUseCase vaultUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(auditUseCase vaultUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListByVaultHandler retrieves the audit trail of one secret.
// GET /v1/secrets/:vault_id/audit?offset=0&limit=50 - Owner only.
// Returns 200 OK with audit entries in reverse chronological order.
func (h *AuditHandler) ListByVaultHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.ListByVault(c.Request.Context(), vaultID, caller, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAuditEntriesToListResponse(entries)
	c.JSON(http.StatusOK, response)
}

// ListByActorHandler retrieves the caller's own actor trail.
// GET /v1/audit?offset=0&limit=50
// Returns 200 OK with audit entries in reverse chronological order.
func (h *AuditHandler) ListByActorHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.ListByActor(c.Request.Context(), caller, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapAuditEntriesToListResponse(entries)
	c.JSON(http.StatusOK, response)
}
