package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	"github.com/xenoISA/isa-vault/internal/vault/http/dto"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
	"github.com/xenoISA/isa-vault/internal/vault/usecase/mocks"
)

// setupShareHandler creates a test handler with mocked dependencies.
func setupShareHandler(t *testing.T) (*ShareHandler, *mocks.MockShareUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockShareUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewShareHandler(mockUseCase, logger), mockUseCase
}

func TestShareHandler_CreateHandler(t *testing.T) {
	caller := vaultDomain.Caller{ID: "alice"}
	vaultID := uuid.Must(uuid.NewV7())

	t.Run("Success_UserGrant", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		request := dto.CreateShareRequest{
			GranteeUserID: "bob",
			Permission:    string(vaultDomain.PermissionRead),
		}

		grant := &vaultDomain.ShareGrant{
			ShareID:       uuid.Must(uuid.NewV7()),
			VaultID:       vaultID,
			OwnerID:       caller.ID,
			GranteeUserID: "bob",
			Permission:    vaultDomain.PermissionRead,
			IsActive:      true,
			CreatedAt:     time.Now().UTC(),
		}

		mockUseCase.On("CreateShare", mock.Anything, caller, vaultUseCase.CreateShareInput{
			VaultID:       vaultID,
			GranteeUserID: "bob",
			Permission:    vaultDomain.PermissionRead,
		}).Return(grant, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets/"+vaultID.String()+"/shares", request)
		c.Params = gin.Params{{Key: "vault_id", Value: vaultID.String()}}
		authenticate(c, caller)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.ShareResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, grant.ShareID.String(), response.ShareID)
		assert.Equal(t, "bob", response.GranteeUserID)
		assert.Equal(t, "read", response.Permission)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidPermission", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		request := dto.CreateShareRequest{
			GranteeUserID: "bob",
			Permission:    "admin",
		}

		c, w := createTestContext(http.MethodPost, "/v1/secrets/"+vaultID.String()+"/shares", request)
		c.Params = gin.Params{{Key: "vault_id", Value: vaultID.String()}}
		authenticate(c, caller)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "CreateShare")
	})

	t.Run("Error_BothGrantees", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		request := dto.CreateShareRequest{
			GranteeUserID: "bob",
			GranteeOrgID:  "acme",
			Permission:    string(vaultDomain.PermissionRead),
		}

		mockUseCase.On("CreateShare", mock.Anything, caller, mock.Anything).
			Return(nil, vaultDomain.ErrInvalidGrantee).Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets/"+vaultID.String()+"/shares", request)
		c.Params = gin.Params{{Key: "vault_id", Value: vaultID.String()}}
		authenticate(c, caller)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_NonOwner", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		request := dto.CreateShareRequest{
			GranteeUserID: "bob",
			Permission:    string(vaultDomain.PermissionRead),
		}

		mockUseCase.On("CreateShare", mock.Anything, caller, mock.Anything).
			Return(nil, apperrors.Wrap(apperrors.ErrForbidden, "only the owner may share a secret")).Once()

		c, w := createTestContext(http.MethodPost, "/v1/secrets/"+vaultID.String()+"/shares", request)
		c.Params = gin.Params{{Key: "vault_id", Value: vaultID.String()}}
		authenticate(c, caller)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestShareHandler_RevokeHandler(t *testing.T) {
	caller := vaultDomain.Caller{ID: "alice"}
	shareID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		mockUseCase.On("RevokeShare", mock.Anything, shareID, caller).
			Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/shares/"+shareID.String(), nil)
		c.Params = gin.Params{{Key: "share_id", Value: shareID.String()}}
		authenticate(c, caller)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidShareID", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		c, w := createTestContext(http.MethodDelete, "/v1/shares/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "share_id", Value: "not-a-uuid"}}
		authenticate(c, caller)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "RevokeShare")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		mockUseCase.On("RevokeShare", mock.Anything, shareID, caller).
			Return(vaultDomain.ErrShareNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/shares/"+shareID.String(), nil)
		c.Params = gin.Params{{Key: "share_id", Value: shareID.String()}}
		authenticate(c, caller)

		handler.RevokeHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShareHandler_ListSharedWithHandler(t *testing.T) {
	caller := vaultDomain.Caller{ID: "bob", OrganizationID: "acme"}

	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		grants := []*vaultDomain.ShareGrant{
			{
				ShareID:       uuid.Must(uuid.NewV7()),
				VaultID:       uuid.Must(uuid.NewV7()),
				OwnerID:       "alice",
				GranteeUserID: "bob",
				Permission:    vaultDomain.PermissionRead,
				IsActive:      true,
			},
		}

		mockUseCase.On("ListSharedWith", mock.Anything, caller, 0, 50).
			Return(grants, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/shares", nil)
		authenticate(c, caller)

		handler.ListSharedWithHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSharesResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data, 1)
		assert.Equal(t, "alice", response.Data[0].OwnerID)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_NoCallerIdentity", func(t *testing.T) {
		handler, mockUseCase := setupShareHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/shares", nil)

		handler.ListSharedWithHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "ListSharedWith")
	})
}
