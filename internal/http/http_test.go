package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xenoISA/isa-vault/internal/metrics"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	vaultHTTP "github.com/xenoISA/isa-vault/internal/vault/http"
	"github.com/xenoISA/isa-vault/internal/vault/usecase/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer builds an API server with mocked use cases behind real handlers.
func newTestServer(cfg ServerConfig) (*Server, *mocks.MockSecretUseCase) {
	gin.SetMode(gin.TestMode)

	logger := testLogger()
	mockSecretUseCase := &mocks.MockSecretUseCase{}

	server := NewServer(
		"127.0.0.1",
		0,
		logger,
		cfg,
		vaultHTTP.NewSecretHandler(mockSecretUseCase, logger),
		vaultHTTP.NewShareHandler(&mocks.MockShareUseCase{}, logger),
		vaultHTTP.NewAuditHandler(&mocks.MockAuditUseCase{}, logger),
	)

	return server, mockSecretUseCase
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestServer_ReadyEndpoint(t *testing.T) {
	server, _ := newTestServer(ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestServer_NotFoundEndpoint(t *testing.T) {
	server, _ := newTestServer(ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_VaultRoutesRequireCallerIdentity(t *testing.T) {
	server, _ := newTestServer(ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/secrets", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_VaultRouteDispatch(t *testing.T) {
	server, mockSecretUseCase := newTestServer(ServerConfig{})

	caller := vaultDomain.Caller{ID: "user-1"}
	mockSecretUseCase.On("List", mock.Anything, caller, vaultDomain.SecretFilter{}, 0, 50).
		Return([]*vaultDomain.SecretRecord{}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/secrets", nil)
	req.Header.Set(vaultHTTP.CallerIDHeader, "user-1")
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSecretUseCase.AssertExpectations(t)
}

func TestServer_RequestIDHeaderSet(t *testing.T) {
	server, _ := newTestServer(ServerConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestServer_RateLimitApplied(t *testing.T) {
	server, mockSecretUseCase := newTestServer(ServerConfig{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.001,
		RateLimitBurst:          1,
	})

	caller := vaultDomain.Caller{ID: "user-1"}
	mockSecretUseCase.On("List", mock.Anything, caller, vaultDomain.SecretFilter{}, 0, 50).
		Return([]*vaultDomain.SecretRecord{}, nil).Once()

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/secrets", nil)
	req.Header.Set(vaultHTTP.CallerIDHeader, "user-1")
	server.GetHandler().ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/secrets", nil)
	req.Header.Set(vaultHTTP.CallerIDHeader, "user-1")
	server.GetHandler().ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := metrics.NewProvider("vault_test")
	assert.NoError(t, err)

	server := NewMetricsServer("127.0.0.1", 0, testLogger(), provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsServer_NoProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := NewMetricsServer("127.0.0.1", 0, testLogger(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
