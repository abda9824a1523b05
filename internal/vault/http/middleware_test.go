package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

func testMiddlewareLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCallerIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_CallerStoredInContext", func(t *testing.T) {
		router := gin.New()
		router.Use(CallerIdentityMiddleware(testMiddlewareLogger()))
		router.GET("/ping", func(c *gin.Context) {
			caller, ok := GetCaller(c.Request.Context())
			assert.True(t, ok)
			assert.Equal(t, "user-1", caller.ID)
			assert.Equal(t, "org-1", caller.OrganizationID)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CallerIDHeader, "user-1")
		req.Header.Set(CallerOrgHeader, "org-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_OrganizationOptional", func(t *testing.T) {
		router := gin.New()
		router.Use(CallerIdentityMiddleware(testMiddlewareLogger()))
		router.GET("/ping", func(c *gin.Context) {
			caller, _ := GetCaller(c.Request.Context())
			assert.Equal(t, "user-1", caller.ID)
			assert.Empty(t, caller.OrganizationID)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CallerIDHeader, "user-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_RequestIDPropagated", func(t *testing.T) {
		router := gin.New()
		router.Use(requestid.New())
		router.Use(CallerIdentityMiddleware(testMiddlewareLogger()))
		router.GET("/ping", func(c *gin.Context) {
			rid := vaultUseCase.RequestIDFromContext(c.Request.Context())
			assert.NotEmpty(t, rid)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CallerIDHeader, "user-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingCallerHeader", func(t *testing.T) {
		router := gin.New()
		router.Use(CallerIdentityMiddleware(testMiddlewareLogger()))
		handlerCalled := false
		router.GET("/ping", func(c *gin.Context) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerCalled)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rps float64, burst int) *gin.Engine {
		router := gin.New()
		router.Use(CallerIdentityMiddleware(testMiddlewareLogger()))
		router.Use(RateLimitMiddleware(rps, burst, testMiddlewareLogger()))
		router.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	doRequest := func(router *gin.Engine, callerID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CallerIDHeader, callerID)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("AllowsWithinBurst", func(t *testing.T) {
		router := newRouter(1, 3)

		for i := 0; i < 3; i++ {
			w := doRequest(router, "user-1")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("RejectsOverBurst", func(t *testing.T) {
		router := newRouter(0.001, 1)

		assert.Equal(t, http.StatusOK, doRequest(router, "user-1").Code)

		w := doRequest(router, "user-1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("IndependentPerCaller", func(t *testing.T) {
		router := newRouter(0.001, 1)

		assert.Equal(t, http.StatusOK, doRequest(router, "user-1").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "user-1").Code)

		// A different caller has its own bucket
		assert.Equal(t, http.StatusOK, doRequest(router, "user-2").Code)
	})

	t.Run("RejectsWithoutCaller", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(RateLimitMiddleware(1, 1, testMiddlewareLogger()))
		router.GET("/ping", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
