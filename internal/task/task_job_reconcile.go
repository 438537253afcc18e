package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/service"
)

// JobReconcileTask runs once at startup and fails analysis jobs left
// queued or processing by an earlier process.
type JobReconcileTask struct {
	jobs   service.AIJobService
	logger *zap.Logger
}

// NewJobReconcileTask creates a JobReconcileTask instance.
func NewJobReconcileTask(jobs service.AIJobService, logger *zap.Logger) Task {
	return &JobReconcileTask{jobs: jobs, logger: logger}
}

func (t *JobReconcileTask) Name() string {
	return "JobReconcile"
}

func (t *JobReconcileTask) LoopInterval() time.Duration {
	return 0
}

func (t *JobReconcileTask) IsStartupRun() bool {
	return true
}

func (t *JobReconcileTask) Run(ctx context.Context) error {
	return t.jobs.ReconcileOrphans(ctx)
}
