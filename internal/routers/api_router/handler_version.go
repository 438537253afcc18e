package api_router

import (
	"github.com/hometracker/home-backup-service/internal/app"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler handles the server version route.
type VersionHandler struct {
	*Handler
}

// NewVersionHandler creates a VersionHandler instance.
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// ServerVersion returns the build version information.
// @Summary Server version
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=pkgapp.VersionInfo} "Success"
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.Version()))
}
