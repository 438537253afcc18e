package model

import (
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// BackupSchedule is a named cron-triggered backup configuration.
type BackupSchedule struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string     `gorm:"column:name;not null" json:"name"`
	Provider       string     `gorm:"column:provider;not null" json:"provider"`
	CronExpression string     `gorm:"column:cron_expression;not null" json:"cronExpression"`
	RetentionDays  int64      `gorm:"column:retention_days" json:"retentionDays"`
	IncludeImages  int64      `gorm:"column:include_images" json:"includeImages"`
	Compress       int64      `gorm:"column:compress" json:"compress"`
	Encrypt        int64      `gorm:"column:encrypt" json:"encrypt"`
	IsEnabled      int64      `gorm:"column:is_enabled" json:"isEnabled"`
	LastRunAt      timex.Time `gorm:"column:last_run_at;type:datetime" json:"lastRunAt"`
	LastRunStatus  string     `gorm:"column:last_run_status" json:"lastRunStatus"`
	LastRunMessage string     `gorm:"column:last_run_message" json:"lastRunMessage"`
	NextRunAt      timex.Time `gorm:"column:next_run_at;type:datetime" json:"nextRunAt"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt"`
}

func (*BackupSchedule) TableName() string {
	return "backup_schedules"
}
