package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-api/internal/auth"
	"github.com/oggyb/swipe-api/internal/middleware"
)

func newEngine(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/me", middleware.RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": middleware.UserID(c),
			"seed":   middleware.ShuffleSeed(c),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newEngine(tokens)
	valid, _, err := tokens.Issue("u1", 99)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header missing"},
		{"no bearer token", "Bearer ", http.StatusUnauthorized, "Token missing"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Token missing"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer " + valid, http.StatusOK, `"userId":"u1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRequireAuth_CarriesSeed(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newEngine(tokens)
	token, _, _ := tokens.Issue("u1", 4000000000)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"seed":4000000000`)
}

func TestRequestID_ReusesHeader(t *testing.T) {
	r := newEngine(auth.NewTokenManager("secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := middleware.NewLimiterStore(0.001, 2, 0)
	t.Cleanup(store.Stop)

	r := gin.New()
	r.Use(middleware.RateLimit(store))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
