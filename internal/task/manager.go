package task

import (
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/service"
	"github.com/hometracker/home-backup-service/pkg/safe_close"
)

// Manager creates and starts the background tasks.
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewManager creates a task manager.
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
	}
}

// RegisterTasks registers every background task.
func (m *Manager) RegisterTasks(schedules service.ScheduleService, jobs service.AIJobService) {
	m.scheduler.AddTask(NewBackupTask(schedules, m.logger))
	m.scheduler.AddTask(NewJobReconcileTask(jobs, m.logger))
}

// Start launches all registered tasks.
func (m *Manager) Start() {
	m.scheduler.Start()
}
