package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"promptdeck/internal/apikey"
	apperrors "promptdeck/internal/errors"
)

const roleKey = "role"

// APIKey creates a Gin middleware that requires a project key signed with
// secret. The key is read from the apikey header, falling back to a bearer
// Authorization header.
func APIKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abortWithAppError(c, apperrors.ErrAPINotConfigured)
			return
		}

		token := c.GetHeader("apikey")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			abortWithAppError(c, apperrors.ErrInvalidAPIKey)
			return
		}

		claims, err := apikey.Verify(token, []byte(secret))
		if err != nil {
			abortWithAppError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// Role returns the role of the verified project key, if any.
func Role(c *gin.Context) string {
	return c.GetString(roleKey)
}

func abortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
