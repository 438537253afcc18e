package model

import (
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// Setting is one key/value row of pass-through configuration, such as the
// analysis endpoint credentials.
type Setting struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key       string     `gorm:"column:key;uniqueIndex;not null" json:"key"`
	Value     string     `gorm:"column:value" json:"value"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;autoUpdateTime:false" json:"updatedAt"`
}

func (*Setting) TableName() string {
	return "settings"
}
