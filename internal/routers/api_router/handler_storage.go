package api_router

import (
	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/dto"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
	apperrors "github.com/hometracker/home-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StorageHandler handles storage provider routes.
type StorageHandler struct {
	*Handler
}

// NewStorageHandler creates a StorageHandler instance.
func NewStorageHandler(a *app.App) *StorageHandler {
	return &StorageHandler{Handler: NewHandler(a)}
}

// List returns every registered provider with its live stats.
// @Summary List storage providers
// @Tags Storage
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ProviderDTO} "Success"
// @Router /api/storage/providers [get]
func (h *StorageHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	providers, err := h.App.ProviderService.List(c.Request.Context())
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(providers))
}

// Add registers a new WebDAV provider after a connectivity check.
// @Summary Add a storage provider
// @Tags Storage
// @Accept json
// @Produce json
// @Param params body dto.ProviderAddRequest true "Provider Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.ProviderDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Router /api/storage/providers [post]
func (h *StorageHandler) Add(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ProviderAddRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	provider, err := h.App.ProviderService.Add(c.Request.Context(), params)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.Add", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(provider))
}

// Remove unregisters a provider. The built-in local provider and
// providers referenced by enabled schedules are refused.
// @Summary Remove a storage provider
// @Tags Storage
// @Produce json
// @Param name path string true "Provider name"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/storage/providers/{name} [delete]
func (h *StorageHandler) Remove(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	name := c.Param("name")
	if name == "" {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("provider name is required"))
		return
	}

	if err := h.App.ProviderService.Remove(c.Request.Context(), name); err != nil {
		h.logError(c.Request.Context(), "StorageHandler.Remove", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Test probes a provider and reports reachability with latency.
// @Summary Test a storage provider connection
// @Tags Storage
// @Produce json
// @Param name path string true "Provider name"
// @Success 200 {object} pkgapp.Res{data=dto.ProviderTestDTO} "Success"
// @Router /api/storage/providers/{name}/test [post]
func (h *StorageHandler) Test(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	name := c.Param("name")
	if name == "" {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("provider name is required"))
		return
	}

	result, err := h.App.ProviderService.Test(c.Request.Context(), name)
	if err != nil {
		h.logError(c.Request.Context(), "StorageHandler.Test", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}
