// Package routers builds the gin engines for the public API and the
// private operations endpoint.
package routers

import (
	"time"

	"github.com/hometracker/home-backup-service/internal/app"
	"github.com/hometracker/home-backup-service/internal/middleware"
	"github.com/hometracker/home-backup-service/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter builds the public API engine.
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.TraceMiddleware())
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		storageHandler := api_router.NewStorageHandler(appContainer)
		backupHandler := api_router.NewBackupHandler(appContainer)
		aiHandler := api_router.NewAIHandler(appContainer)
		settingHandler := api_router.NewSettingHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)

		api.GET("/storage/providers", storageHandler.List)
		api.POST("/storage/providers", storageHandler.Add)
		api.DELETE("/storage/providers/:name", storageHandler.Remove)
		api.POST("/storage/providers/:name/test", storageHandler.Test)

		api.GET("/backup/schedules", backupHandler.ListSchedules)
		api.POST("/backup/schedules", backupHandler.CreateSchedule)
		api.PUT("/backup/schedules/:id/toggle", backupHandler.ToggleSchedule)
		api.DELETE("/backup/schedules/:id", backupHandler.DeleteSchedule)
		api.POST("/backup/schedules/:id/run", backupHandler.RunSchedule)
		api.GET("/backup/backups", backupHandler.ListBackups)
		api.GET("/backup/stats", backupHandler.Stats)
		api.POST("/backup/restore", backupHandler.Restore)
		api.GET("/backup/download", backupHandler.Download)

		api.POST("/ai/jobs", aiHandler.CreateJob)
		api.GET("/ai/jobs/:id", aiHandler.GetJob)
		api.GET("/ai/jobs/:id/items", aiHandler.GetJobItems)

		api.GET("/settings/ai", settingHandler.GetAISettings)
		api.POST("/settings/ai", settingHandler.UpdateAISettings)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
