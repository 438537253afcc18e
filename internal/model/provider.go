package model

import (
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// Provider is a configured storage backend.
type Provider struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string     `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Kind           string     `gorm:"column:kind;not null" json:"kind"`
	URL            string     `gorm:"column:url" json:"url"`
	User           string     `gorm:"column:user" json:"user"`
	Password       string     `gorm:"column:password" json:"-"`
	BasePath       string     `gorm:"column:base_path" json:"basePath"`
	TimeoutSeconds int64      `gorm:"column:timeout_seconds" json:"timeoutSeconds"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt"`
}

func (*Provider) TableName() string {
	return "providers"
}
