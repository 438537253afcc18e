package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/logger"
)

// RecoveryWithLogger turns panics into logged 500 responses.
func RecoveryWithLogger(zl *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		defer func() {
			if err := recover(); err != nil {
				var errorMsg string
				switch e := err.(type) {
				case string:
					errorMsg = e
				case error:
					errorMsg = e.Error()
				default:
					errorMsg = fmt.Sprintf("%v", err)
				}

				zl.Error("recovered from panic",
					zap.Int("status", c.Writer.Status()),
					zap.String("router", path),
					zap.String(logger.FieldMethod, c.Request.Method),
					zap.String("query", query),
					zap.String("ip", c.ClientIP()),
					zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
					zap.String("panic", errorMsg),
					zap.String("stack", string(debug.Stack())),
				)

				app.NewResponse(c).ToResponse(code.ServerError.WithDetails(errorMsg))
				c.Abort()
			}
		}()

		c.Next()
	}
}
