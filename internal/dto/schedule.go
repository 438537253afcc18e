package dto

import "github.com/hometracker/home-backup-service/pkg/timex"

// ScheduleCreateRequest creates a backup schedule.
type ScheduleCreateRequest struct {
	Name           string `json:"name" form:"name" binding:"required,max=64" example:"Nightly"`
	Provider       string `json:"provider" form:"provider" binding:"required" example:"local"`
	CronExpression string `json:"cron" form:"cron" binding:"required" example:"0 2 * * *"`
	RetentionDays  int    `json:"retentionDays" form:"retentionDays" binding:"min=1" example:"7"`
	IncludeImages  bool   `json:"includeImages" form:"includeImages" example:"true"`
	Compress       bool   `json:"compress" form:"compress" example:"true"`
	Encrypt        bool   `json:"encrypt" form:"encrypt" example:"false"`
	Enabled        bool   `json:"enabled" form:"enabled" example:"true"`
}

// ScheduleToggleRequest flips the enabled flag.
type ScheduleToggleRequest struct {
	Enabled *bool `json:"enabled" form:"enabled" binding:"required" example:"true"`
}

// ScheduleIDRequest addresses a schedule by id.
type ScheduleIDRequest struct {
	ID int64 `json:"id" form:"id" uri:"id" binding:"required" example:"1"`
}

// ScheduleDTO is one backup schedule.
type ScheduleDTO struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Provider       string     `json:"provider"`
	CronExpression string     `json:"cron"`
	RetentionDays  int        `json:"retentionDays"`
	IncludeImages  bool       `json:"includeImages"`
	Compress       bool       `json:"compress"`
	Encrypt        bool       `json:"encrypt"`
	Enabled        bool       `json:"enabled"`
	LastRunAt      timex.Time `json:"lastRunAt"`
	LastRunStatus  string     `json:"lastRunStatus"`
	LastRunMessage string     `json:"lastRunMessage"`
	NextRunAt      timex.Time `json:"nextRunAt"`
	CreatedAt      timex.Time `json:"createdAt"`
}

// BackupRecordDTO is one stored backup artifact.
type BackupRecordDTO struct {
	Provider  string     `json:"provider"`
	Filename  string     `json:"filename"`
	SizeBytes int64      `json:"sizeBytes"`
	SizeHuman string     `json:"sizeHuman"`
	CreatedAt timex.Time `json:"createdAt"`
}

// RunResultDTO is the outcome of a manual run.
type RunResultDTO struct {
	Success bool             `json:"success"`
	Record  *BackupRecordDTO `json:"backupRecord,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// RestoreRequest restores from a stored backup.
type RestoreRequest struct {
	Provider   string `json:"provider" form:"provider" binding:"required" example:"local"`
	Filename   string `json:"filename" form:"filename" binding:"required" example:"backup_nightly_20260830_020000.hbk.gz"`
	Passphrase string `json:"passphrase" form:"passphrase" example:""`
}

// BackupDownloadRequest fetches a stored artifact.
type BackupDownloadRequest struct {
	Provider string `json:"provider" form:"provider" binding:"required" example:"local"`
	Filename string `json:"filename" form:"filename" binding:"required" example:"backup_nightly_20260830_020000.hbk.gz"`
}

// StorageStatsDTO aggregates the state of all providers.
type StorageStatsDTO struct {
	Providers    int        `json:"providers"`
	TotalBackups int64      `json:"totalBackups"`
	TotalSize    int64      `json:"totalSize"`
	SizeHuman    string     `json:"sizeHuman"`
	LastBackupAt timex.Time `json:"lastBackupAt"`
}
