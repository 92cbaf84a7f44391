package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, userID uuid.UUID, role domain.UserRole) string {
	return "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID, role))
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewJWTTokenService(testSecret, quietLogger())
	router := gin.New()
	router.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		payload, _ := getAuthPayload(c, authorizationPayloadKey)
		c.String(http.StatusOK, payload.UserID.String())
	})

	userID := uuid.New()
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", bearer(t, userID, domain.AppUser), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(authorizationHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tokens := NewJWTTokenService(testSecret, quietLogger())
	router := gin.New()
	router.POST("/admin", AuthMiddleware(tokens), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for role, status := range map[domain.UserRole]int{
		domain.AppUser: http.StatusForbidden,
		domain.Admin:   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(authorizationHeaderKey, bearer(t, uuid.New(), role))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, role)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "buckets are per client")

	limiter.ttl = time.Nanosecond
	time.Sleep(time.Millisecond)
	limiter.Cleanup()
	assert.Empty(t, limiter.visitors)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrVehicleNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrChallengeNotFound), http.StatusNotFound},
		{domain.ErrConflict, http.StatusConflict},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, message := errorStatus(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		if status == http.StatusInternalServerError {
			assert.Equal(t, "Internal server error", message)
		}
	}
}
