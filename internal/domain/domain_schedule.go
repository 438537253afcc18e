package domain

import "time"

const (
	RunStatusIdle    = "idle"
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// BackupSchedule is a named cron-triggered backup configuration.
// NextRunAt is a cached hint recomputed from the cron expression whenever
// the schedule is created, toggled or finishes a run; it is never used to
// replay fires missed while disabled.
type BackupSchedule struct {
	ID             int64
	Name           string
	Provider       string // provider reference by name, resolved at run time
	CronExpression string
	RetentionDays  int
	IncludeImages  bool
	Compress       bool
	Encrypt        bool
	IsEnabled      bool
	LastRunAt      time.Time
	LastRunStatus  string
	LastRunMessage string
	NextRunAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
