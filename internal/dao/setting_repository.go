package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/model"
	"github.com/hometracker/home-backup-service/pkg/timex"
)

type settingRepository struct {
	dao *Dao
}

// NewSettingRepository creates a SettingRepository instance.
func NewSettingRepository(dao *Dao) domain.SettingRepository {
	return &settingRepository{dao: dao}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var m model.Setting
	err := r.dao.db.WithContext(ctx).Where("key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return m.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	m := &model.Setting{
		Key:       key,
		Value:     value,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	return r.dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
}

var _ domain.SettingRepository = (*settingRepository)(nil)
