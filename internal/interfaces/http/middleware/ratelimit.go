package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brickquote/backend/internal/domain/shared"
	"github.com/brickquote/backend/internal/infrastructure/cache"
	"github.com/brickquote/backend/internal/interfaces/http/dto"
)

// KeyFunc derives the rate-limit bucket key from a request
type KeyFunc func(c *gin.Context) string

// KeyByClientIP buckets requests by client IP
func KeyByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByContractor buckets requests by the authenticated contractor,
// falling back to client IP for unauthenticated requests
func KeyByContractor(c *gin.Context) string {
	if id := GetContractorID(c); id != uuid.Nil {
		return id.String()
	}
	return c.ClientIP()
}

// RateLimit enforces a request limit per key within the window. Limiter
// errors fail open inside the limiter itself.
func RateLimit(limiter cache.RateLimiter, name string, limit int, window time.Duration, keyFunc KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + keyFunc(c)
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("Rate limiter error",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse(shared.ErrRateLimited.Code, shared.ErrRateLimited.Message))
			return
		}
		c.Next()
	}
}
