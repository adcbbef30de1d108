package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"promptdeck/internal/backend"
	apperrors "promptdeck/internal/errors"
	"promptdeck/internal/logger"
)

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into PostgREST-shaped JSON bodies. Backend errors pass through with
// their status and code; AppErrors are returned with their code and message;
// anything else is logged and returned as a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var beErr *backend.Error
		if errors.As(err, &beErr) {
			if beErr.Status >= 500 {
				logger.Get().Errorw("backend error",
					"code", beErr.Code,
					"message", beErr.Message,
					"path", c.Request.URL.Path,
					"request_id", RequestID(c),
				)
			}
			c.JSON(beErr.Status, beErr)
			return
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
					"request_id", RequestID(c),
				)
			}
			c.JSON(appErr.StatusCode, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", RequestID(c),
		)
		c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		})
	}
}
