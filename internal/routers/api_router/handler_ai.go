package api_router

import (
	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/dto"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
	apperrors "github.com/hometracker/home-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AIHandler handles analysis job routes.
type AIHandler struct {
	*Handler
}

// NewAIHandler creates an AIHandler instance.
func NewAIHandler(a *app.App) *AIHandler {
	return &AIHandler{Handler: NewHandler(a)}
}

// CreateJob enqueues an analysis job and returns its id immediately.
// Progress is observed by polling GetJob.
// @Summary Create an analysis job
// @Tags AI
// @Accept json
// @Produce json
// @Param params body dto.AIJobCreateRequest true "Job Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.AIJobCreatedDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Router /api/ai/jobs [post]
func (h *AIHandler) CreateJob(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AIJobCreateRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	created, err := h.App.AIJobService.Create(c.Request.Context(), params)
	if err != nil {
		h.logError(c.Request.Context(), "AIHandler.CreateJob", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(created))
}

// GetJob returns the job's current status and progress counters.
// @Summary Get an analysis job
// @Tags AI
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} pkgapp.Res{data=dto.AIJobDTO} "Success"
// @Router /api/ai/jobs/{id} [get]
func (h *AIHandler) GetJob(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("job id is required"))
		return
	}

	job, err := h.App.AIJobService.Status(c.Request.Context(), id)
	if err != nil {
		h.logError(c.Request.Context(), "AIHandler.GetJob", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(job))
}

// GetJobItems returns the job's per-item outcomes.
// @Summary Get analysis job items
// @Tags AI
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.AIJobItemDTO} "Success"
// @Router /api/ai/jobs/{id}/items [get]
func (h *AIHandler) GetJobItems(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("job id is required"))
		return
	}

	items, err := h.App.AIJobService.Items(c.Request.Context(), id)
	if err != nil {
		h.logError(c.Request.Context(), "AIHandler.GetJobItems", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(items))
}
