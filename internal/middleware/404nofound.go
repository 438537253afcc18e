package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
)

// NoFound handles unmatched routes.
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFound)
		c.Abort()
	}
}
