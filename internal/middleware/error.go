package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into the JSON error body
// used across the API. Internal causes are logged and never sent to clients.
// Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			abortWithError(c, appErr)
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		abortWithError(c, apperrors.ErrInternalServer)
	}
}
