package api_router

import (
	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/dto"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
	apperrors "github.com/hometracker/home-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SettingHandler handles AI settings routes.
type SettingHandler struct {
	*Handler
}

// NewSettingHandler creates a SettingHandler instance.
func NewSettingHandler(a *app.App) *SettingHandler {
	return &SettingHandler{Handler: NewHandler(a)}
}

// GetAISettings returns the stored AI settings. The API key is never
// echoed back, only whether one is set.
// @Summary Get AI settings
// @Tags Settings
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.AISettingsDTO} "Success"
// @Router /api/settings/ai [get]
func (h *SettingHandler) GetAISettings(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	settings, err := h.App.SettingService.GetAISettings(c.Request.Context())
	if err != nil {
		h.logError(c.Request.Context(), "SettingHandler.GetAISettings", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(settings))
}

// UpdateAISettings stores AI provider settings. An empty api key keeps
// the stored one.
// @Summary Update AI settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param params body dto.AISettingsRequest true "AI Settings"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Router /api/settings/ai [post]
func (h *SettingHandler) UpdateAISettings(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AISettingsRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	if err := h.App.SettingService.UpdateAISettings(c.Request.Context(), params); err != nil {
		h.logError(c.Request.Context(), "SettingHandler.UpdateAISettings", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate)
}
