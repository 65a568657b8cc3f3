package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brickquote/backend/internal/infrastructure/auth"
	"github.com/brickquote/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	ContractorIDKey = "jwt_contractor_id"
	JWTEmailKey     = "jwt_email"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// JWTAuthMiddleware validates the bearer token and stores the contractor
// identity on the request context
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		contractorID, err := claims.ProfileUUID()
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContractorIDKey, contractorID)
		c.Set(JWTEmailKey, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetContractorID returns the authenticated contractor's ID, or uuid.Nil
// when the request is unauthenticated
func GetContractorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContractorIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
