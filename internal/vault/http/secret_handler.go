// Package http provides HTTP handlers and middleware for vault operations.
// Secrets are encrypted at rest using envelope encryption and can be rotated,
// shared, and audited.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	"github.com/xenoISA/isa-vault/internal/httputil"
	customValidation "github.com/xenoISA/isa-vault/internal/validation"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	"github.com/xenoISA/isa-vault/internal/vault/http/dto"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// SecretHandler handles HTTP requests for secret lifecycle operations.
type SecretHandler struct {
	secretUseCase vaultUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase vaultUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a new secret.
// POST /v1/secrets
// Returns 201 Created with secret metadata (excludes plaintext value for security).
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := base64.StdEncoding.DecodeString(req.Value)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid base64 value: %w", err),
			h.logger,
		)
		return
	}

	input := vaultUseCase.CreateSecretInput{
		Caller:               caller,
		OrganizationID:       req.OrganizationID,
		SecretType:           vaultDomain.SecretType(req.SecretType),
		Provider:             req.Provider,
		Name:                 req.Name,
		Description:          req.Description,
		Plaintext:            value,
		Tags:                 req.Tags,
		Metadata:             req.Metadata,
		ExpiresAt:            req.ExpiresAt,
		RotationEnabled:      req.RotationEnabled,
		RotationIntervalDays: req.RotationIntervalDays,
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSecretToResponse(secret)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a secret by its vault id.
// GET /v1/secrets/:vault_id?decrypt=true
// Without decrypt, returns metadata only. With decrypt, returns 200 OK with the
// plaintext value. SECURITY: Plaintext is zeroed after the response is mapped.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	decrypt := false
	if decryptStr := c.Query("decrypt"); decryptStr != "" {
		parsed, parseErr := strconv.ParseBool(decryptStr)
		if parseErr != nil {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid decrypt parameter: must be a boolean"),
				h.logger,
			)
			return
		}
		decrypt = parsed
	}

	secret, err := h.secretUseCase.Get(c.Request.Context(), vaultID, caller, decrypt)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !decrypt {
		c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
		return
	}

	// SECURITY: Zero plaintext after mapping to response
	defer cryptoDomain.Zero(secret.Plaintext)

	response := dto.MapSecretToGetResponse(secret)
	c.JSON(http.StatusOK, response)
}

// ListHandler retrieves the caller's secrets with pagination support.
// GET /v1/secrets?secret_type=api_key&tag=prod&offset=0&limit=50
// Returns 200 OK with a paginated secret list (excludes plaintext values).
func (h *SecretHandler) ListHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := vaultDomain.SecretFilter{
		SecretType: vaultDomain.SecretType(c.Query("secret_type")),
		Tag:        c.Query("tag"),
	}
	if filter.SecretType != "" && !filter.SecretType.Valid() {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid secret_type parameter"),
			h.logger,
		)
		return
	}

	secrets, err := h.secretUseCase.List(c.Request.Context(), caller, filter, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSecretsToListResponse(secrets)
	c.JSON(http.StatusOK, response)
}

// UpdateHandler updates the mutable metadata of a secret.
// PATCH /v1/secrets/:vault_id
// Absent fields are left unchanged. Returns 200 OK with the updated metadata.
func (h *SecretHandler) UpdateHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	var req dto.UpdateSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := vaultUseCase.UpdateMetadataInput{
		Name:                 req.Name,
		Description:          req.Description,
		Tags:                 req.Tags,
		Metadata:             req.Metadata,
		ExpiresAt:            req.ExpiresAt,
		RotationEnabled:      req.RotationEnabled,
		RotationIntervalDays: req.RotationIntervalDays,
	}

	secret, err := h.secretUseCase.UpdateMetadata(c.Request.Context(), vaultID, caller, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSecretToResponse(secret)
	c.JSON(http.StatusOK, response)
}

// RotateHandler replaces the value of a secret under a fresh key.
// POST /v1/secrets/:vault_id/rotate
// Returns 200 OK with the new version's metadata.
func (h *SecretHandler) RotateHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	var req dto.RotateSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := base64.StdEncoding.DecodeString(req.Value)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid base64 value: %w", err),
			h.logger,
		)
		return
	}

	secret, err := h.secretUseCase.Rotate(c.Request.Context(), vaultID, caller, value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSecretToResponse(secret)
	c.JSON(http.StatusOK, response)
}

// DeleteHandler deletes a secret by its vault id.
// DELETE /v1/secrets/:vault_id?permanent=true
// Without permanent, the secret is deactivated and can still be listed. With
// permanent, the record and its share grants are purged. Returns 204 No Content.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	caller, ok := callerFromRequest(c, h.logger)
	if !ok {
		return
	}

	vaultID, ok := vaultIDFromRequest(c, h.logger)
	if !ok {
		return
	}

	permanent := false
	if permanentStr := c.Query("permanent"); permanentStr != "" {
		parsed, parseErr := strconv.ParseBool(permanentStr)
		if parseErr != nil {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid permanent parameter: must be a boolean"),
				h.logger,
			)
			return
		}
		permanent = parsed
	}

	if err := h.secretUseCase.Delete(c.Request.Context(), vaultID, caller, permanent); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// callerFromRequest retrieves the caller identity set by CallerIdentityMiddleware.
// Writes a 401 response and returns false when the identity is missing.
func callerFromRequest(c *gin.Context, logger *slog.Logger) (vaultDomain.Caller, bool) {
	caller, ok := GetCaller(c.Request.Context())
	if !ok || !caller.Valid() {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return vaultDomain.Caller{}, false
	}
	return caller, true
}

// vaultIDFromRequest parses the vault_id URL parameter.
// Writes a 422 response and returns false when the parameter is not a UUID.
func vaultIDFromRequest(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	vaultID, err := uuid.Parse(c.Param("vault_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid vault_id parameter: must be a UUID"),
			logger,
		)
		return uuid.Nil, false
	}
	return vaultID, true
}
