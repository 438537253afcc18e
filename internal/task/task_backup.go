package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/service"
)

// BackupTask evaluates due schedules once per minute.
type BackupTask struct {
	schedules service.ScheduleService
	logger    *zap.Logger
}

// NewBackupTask creates a BackupTask instance.
func NewBackupTask(schedules service.ScheduleService, logger *zap.Logger) Task {
	return &BackupTask{schedules: schedules, logger: logger}
}

func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

func (t *BackupTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

func (t *BackupTask) IsStartupRun() bool {
	return false
}

func (t *BackupTask) Run(ctx context.Context) error {
	return t.schedules.RunDueSchedules(ctx)
}
