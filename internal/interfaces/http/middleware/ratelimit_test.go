package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/interfaces/http/dto"
)

type stubRateLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubRateLimiter) Allow(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func performRateLimitedRequest(limiter *stubRateLimiter) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(limiter, "test", 5, time.Minute, KeyByClientIP, zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := &stubRateLimiter{allowed: true}

	w := performRateLimitedRequest(limiter)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.calls)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := &stubRateLimiter{allowed: false}

	w := performRateLimitedRequest(limiter)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.ErrRateLimited.Code, resp.Error.Code)
	assert.Equal(t, shared.ErrRateLimited.Message, resp.Error.Message)
}

func TestRateLimit_FailsOpenOnLimiterError(t *testing.T) {
	limiter := &stubRateLimiter{err: errors.New("redis: connection refused")}

	w := performRateLimitedRequest(limiter)

	assert.Equal(t, http.StatusOK, w.Code)
}
