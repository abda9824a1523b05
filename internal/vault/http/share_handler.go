// Package http provides HTTP handlers and middleware for vault operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/httputil"
	customValidation "github.com/xenoISA/isa-vault/internal/validation"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	"github.com/xenoISA/isa-vault/internal/vault/http/dto"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// ShareHandler handles HTTP requests for share grant management.
type ShareHandler struct {
	shareUseCase vaultUseCase.ShareUseCase
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler with required dependencies.
func NewShareHandler(shareUseCase vaultUseCase.ShareUseCase, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shareUseCase: shareUseCase,
		logger:       logger,
	}
}

// CreateHandler shares a secret with another user or organization.
// POST /v1/secrets/:vault_id/shares - Owner only.
// Returns 201 Created with the new share grant.
func (h *ShareHandler) CreateHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateShareRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := vaultUseCase.CreateShareInput{
		VaultID:       vaultID,
		GranteeUserID: req.GranteeUserID,
		GranteeOrgID:  req.GranteeOrgID,
		Permission:    vaultDomain.Permission(req.Permission),
		ExpiresAt:     req.ExpiresAt,
	}

	grant, err := h.shareUseCase.CreateShare(c.Request.Context(), caller, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapShareToResponse(grant)
	c.JSON(http.StatusCreated, response)
}

// RevokeHandler revokes a share grant.
// DELETE /v1/shares/:share_id - Owner only.
// Returns 204 No Content. Revocation takes effect immediately.
func (h *ShareHandler) RevokeHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	shareID, err := uuid.Parse(c.Param("share_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid share_id parameter: must be a UUID"),
			h.logger,
		)
		return
	}

	if err := h.shareUseCase.RevokeShare(c.Request.Context(), shareID, caller); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListSharedWithHandler lists the grants where the caller is the grantee.
// GET /v1/shares?offset=0&limit=50
// Returns 200 OK with a paginated list of active grants.
func (h *ShareHandler) ListSharedWithHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	grants, err := h.shareUseCase.ListSharedWith(c.Request.Context(), caller, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSharesToListResponse(grants)
	c.JSON(http.StatusOK, response)
}
