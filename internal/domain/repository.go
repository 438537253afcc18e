package domain

import (
	"context"
	"time"
)

// ProviderRepository persists storage-provider configurations.
type ProviderRepository interface {
	// GetByName returns the provider config, or nil when absent.
	GetByName(ctx context.Context, name string) (*Provider, error)

	// List returns all provider configs ordered by name.
	List(ctx context.Context) ([]*Provider, error)

	// Create inserts a new provider config.
	Create(ctx context.Context, provider *Provider) (*Provider, error)

	// Delete removes a provider config by name.
	Delete(ctx context.Context, name string) error
}

// ScheduleRepository persists backup schedules.
type ScheduleRepository interface {
	// GetByID returns the schedule, or nil when absent.
	GetByID(ctx context.Context, id int64) (*BackupSchedule, error)

	// List returns all schedules ordered by id.
	List(ctx context.Context) ([]*BackupSchedule, error)

	// ListEnabled returns the enabled schedules.
	ListEnabled(ctx context.Context) ([]*BackupSchedule, error)

	// CountByProvider counts enabled schedules referencing a provider.
	CountByProvider(ctx context.Context, provider string, enabledOnly bool) (int64, error)

	// Create inserts a new schedule.
	Create(ctx context.Context, schedule *BackupSchedule) (*BackupSchedule, error)

	// Update saves all mutable schedule fields.
	Update(ctx context.Context, schedule *BackupSchedule) error

	// UpdateEnabled flips the enabled flag and refreshes the next-run hint.
	UpdateEnabled(ctx context.Context, id int64, enabled bool, nextRunAt time.Time) error

	// UpdateRunResult records a finished run and the next-run hint.
	UpdateRunResult(ctx context.Context, id int64, status, message string, lastRunAt, nextRunAt time.Time) error

	// Delete removes a schedule by id.
	Delete(ctx context.Context, id int64) error
}

// AIJobRepository persists analysis jobs and their items.
type AIJobRepository interface {
	// GetJob returns the job, or nil when absent.
	GetJob(ctx context.Context, id string) (*AIJob, error)

	// ListJobs returns jobs newest first.
	ListJobs(ctx context.Context, page, pageSize int) ([]*AIJob, int64, error)

	// ListJobsByStatus returns all jobs in the given statuses.
	ListJobsByStatus(ctx context.Context, statuses ...string) ([]*AIJob, error)

	// CreateJob inserts a job together with its items.
	CreateJob(ctx context.Context, job *AIJob, items []*AIJobItem) error

	// ListItems returns a job's items in submission order.
	ListItems(ctx context.Context, jobID string) ([]*AIJobItem, error)

	// UpdateJobStatus moves a job to a new status.
	UpdateJobStatus(ctx context.Context, id, status string) error

	// UpdateJobProgress records per-item progress counters.
	UpdateJobProgress(ctx context.Context, id string, processedItems, createdItems int) error

	// FinishJob records the terminal status with its error message.
	FinishJob(ctx context.Context, id, status, errorMessage string, finishedAt time.Time) error

	// UpdateItem writes an item's terminal state.
	UpdateItem(ctx context.Context, itemID int64, status, result, errMsg string) error
}

// SettingRepository persists key/value pass-through settings.
type SettingRepository interface {
	// Get returns the setting value, or "" when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or updates a setting.
	Set(ctx context.Context, key, value string) error
}
