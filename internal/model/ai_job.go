package model

import (
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// AIJob is one submitted batch of analysis items.
type AIJob struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	Type           string     `gorm:"column:type;not null" json:"type"`
	Status         string     `gorm:"column:status;not null" json:"status"`
	TotalItems     int64      `gorm:"column:total_items" json:"totalItems"`
	ProcessedItems int64      `gorm:"column:processed_items" json:"processedItems"`
	CreatedItems   int64      `gorm:"column:created_items" json:"createdItems"`
	ErrorMessage   string     `gorm:"column:error_message" json:"errorMessage"`
	StartedAt      timex.Time `gorm:"column:started_at;type:datetime" json:"startedAt"`
	FinishedAt     timex.Time `gorm:"column:finished_at;type:datetime" json:"finishedAt"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt"`
}

func (*AIJob) TableName() string {
	return "ai_jobs"
}

// AIJobItem is one image inside a job, written once by the worker.
type AIJobItem struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	JobID     string     `gorm:"column:job_id;index;not null" json:"jobId"`
	Position  int64      `gorm:"column:position" json:"position"`
	ImageRef  string     `gorm:"column:image_ref;not null" json:"imageRef"`
	Status    string     `gorm:"column:status;not null" json:"status"`
	Result    string     `gorm:"column:result" json:"result"`
	Error     string     `gorm:"column:error" json:"error"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt"`
}

func (*AIJobItem) TableName() string {
	return "ai_job_items"
}
