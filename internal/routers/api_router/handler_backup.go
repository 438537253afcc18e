package api_router

import (
	"net/http"
	"strconv"

	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/dto"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/code"
	apperrors "github.com/hometracker/home-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// BackupHandler handles backup schedule, run and restore routes.
type BackupHandler struct {
	*Handler
}

// NewBackupHandler creates a BackupHandler instance.
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{Handler: NewHandler(a)}
}

func scheduleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListSchedules returns all backup schedules.
// @Summary List backup schedules
// @Tags Backup
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ScheduleDTO} "Success"
// @Router /api/backup/schedules [get]
func (h *BackupHandler) ListSchedules(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	schedules, err := h.App.ScheduleService.List(c.Request.Context())
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.ListSchedules", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(schedules))
}

// CreateSchedule creates a backup schedule.
// @Summary Create a backup schedule
// @Tags Backup
// @Accept json
// @Produce json
// @Param params body dto.ScheduleCreateRequest true "Schedule Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.ScheduleDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Router /api/backup/schedules [post]
func (h *BackupHandler) CreateSchedule(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ScheduleCreateRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	schedule, err := h.App.ScheduleService.Create(c.Request.Context(), params)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.CreateSchedule", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(schedule))
}

// ToggleSchedule enables or disables a schedule. Toggling is idempotent;
// re-enabling recomputes the next run from now.
// @Summary Enable or disable a backup schedule
// @Tags Backup
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param params body dto.ScheduleToggleRequest true "Toggle Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/backup/schedules/{id}/toggle [put]
func (h *BackupHandler) ToggleSchedule(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id, ok := scheduleID(c)
	if !ok {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("invalid schedule id"))
		return
	}

	params := &dto.ScheduleToggleRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	if err := h.App.ScheduleService.Toggle(c.Request.Context(), id, *params.Enabled); err != nil {
		h.logError(c.Request.Context(), "BackupHandler.ToggleSchedule", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate)
}

// DeleteSchedule removes a schedule. Stored backup artifacts are kept.
// @Summary Delete a backup schedule
// @Tags Backup
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/backup/schedules/{id} [delete]
func (h *BackupHandler) DeleteSchedule(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id, ok := scheduleID(c)
	if !ok {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("invalid schedule id"))
		return
	}

	if err := h.App.ScheduleService.Delete(c.Request.Context(), id); err != nil {
		h.logError(c.Request.Context(), "BackupHandler.DeleteSchedule", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessDelete)
}

// RunSchedule triggers a schedule immediately and waits for the outcome.
// A concurrent run of the same schedule is rejected.
// @Summary Run a backup schedule now
// @Tags Backup
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} pkgapp.Res{data=dto.RunResultDTO} "Success"
// @Router /api/backup/schedules/{id}/run [post]
func (h *BackupHandler) RunSchedule(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id, ok := scheduleID(c)
	if !ok {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("invalid schedule id"))
		return
	}

	result, err := h.App.ScheduleService.RunNow(c.Request.Context(), id)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.RunSchedule", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// ListBackups returns every stored backup artifact across providers.
// @Summary List stored backups
// @Tags Backup
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.BackupRecordDTO} "Success"
// @Router /api/backup/backups [get]
func (h *BackupHandler) ListBackups(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	backups, err := h.App.ScheduleService.ListBackups(c.Request.Context())
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.ListBackups", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(backups))
}

// Stats aggregates backup counts and sizes across providers.
// @Summary Storage statistics
// @Tags Backup
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.StorageStatsDTO} "Success"
// @Router /api/backup/stats [get]
func (h *BackupHandler) Stats(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	stats, err := h.App.ScheduleService.Stats(c.Request.Context())
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.Stats", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(stats))
}

// Restore replaces the current household data from a stored backup.
// On failure the previous data is left untouched.
// @Summary Restore from a stored backup
// @Tags Backup
// @Accept json
// @Produce json
// @Param params body dto.RestoreRequest true "Restore Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Params"
// @Router /api/backup/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RestoreRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	if err := h.App.RestoreService.Restore(c.Request.Context(), params); err != nil {
		h.logError(c.Request.Context(), "BackupHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Download streams a stored backup artifact as-is.
// @Summary Download a stored backup
// @Tags Backup
// @Produce octet-stream
// @Param provider query string true "Provider name"
// @Param filename query string true "Backup filename"
// @Success 200 {file} binary "Backup artifact"
// @Router /api/backup/download [get]
func (h *BackupHandler) Download(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BackupDownloadRequest{}

	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()))
		return
	}

	data, err := h.App.RestoreService.Download(c.Request.Context(), params.Provider, params.Filename)
	if err != nil {
		h.logError(c.Request.Context(), "BackupHandler.Download", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(params.Filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
