package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/infrastructure/auth"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// JWTClaimsKey is the gin context key of the verified admin claims
const JWTClaimsKey = "jwt_claims"

// TokenAuthorizer verifies an admin bearer token
type TokenAuthorizer interface {
	Authorize(tokenString, role string) (*auth.Claims, error)
}

// AdminAuth requires a valid bearer token carrying role
func AdminAuth(authorizer TokenAuthorizer, role string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := authorizer.Authorize(strings.TrimSpace(token), role)
		if err != nil {
			log.Warn("Admin authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			switch {
			case errors.Is(err, auth.ErrMissingRole):
				abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient role")
			case errors.Is(err, auth.ErrExpiredToken):
				abortAuth(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Token has expired")
			default:
				abortAuth(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			}
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Next()
	}
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetJWTClaims retrieves the admin claims, or nil when auth is disabled
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
