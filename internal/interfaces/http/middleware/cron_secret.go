package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// CronSecretHeader is the alternative to a bearer token for the cron trigger
const CronSecretHeader = "X-Cron-Secret"

// CronSecret guards the sync trigger with a shared secret given as
// "Authorization: Bearer <secret>" or in X-Cron-Secret. An empty configured
// secret rejects every request.
func CronSecret(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	expected := []byte(secret)

	return func(c *gin.Context) {
		presented := presentedCronSecret(c)
		if len(expected) == 0 || presented == "" ||
			subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			log.Warn("Rejected sync trigger",
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("secret_present", presented != ""),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized, "Unauthorized", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func presentedCronSecret(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(CronSecretHeader))
}
