package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/model"
	"github.com/hometracker/home-backup-service/pkg/timex"
)

type scheduleRepository struct {
	dao *Dao
}

// NewScheduleRepository creates a ScheduleRepository instance.
func NewScheduleRepository(dao *Dao) domain.ScheduleRepository {
	return &scheduleRepository{dao: dao}
}

func (r *scheduleRepository) toDomain(m *model.BackupSchedule) *domain.BackupSchedule {
	if m == nil {
		return nil
	}
	return &domain.BackupSchedule{
		ID:             m.ID,
		Name:           m.Name,
		Provider:       m.Provider,
		CronExpression: m.CronExpression,
		RetentionDays:  int(m.RetentionDays),
		IncludeImages:  m.IncludeImages == 1,
		Compress:       m.Compress == 1,
		Encrypt:        m.Encrypt == 1,
		IsEnabled:      m.IsEnabled == 1,
		LastRunAt:      time.Time(m.LastRunAt),
		LastRunStatus:  m.LastRunStatus,
		LastRunMessage: m.LastRunMessage,
		NextRunAt:      time.Time(m.NextRunAt),
		CreatedAt:      time.Time(m.CreatedAt),
		UpdatedAt:      time.Time(m.UpdatedAt),
	}
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (r *scheduleRepository) toModel(d *domain.BackupSchedule) *model.BackupSchedule {
	if d == nil {
		return nil
	}
	return &model.BackupSchedule{
		ID:             d.ID,
		Name:           d.Name,
		Provider:       d.Provider,
		CronExpression: d.CronExpression,
		RetentionDays:  int64(d.RetentionDays),
		IncludeImages:  boolToInt64(d.IncludeImages),
		Compress:       boolToInt64(d.Compress),
		Encrypt:        boolToInt64(d.Encrypt),
		IsEnabled:      boolToInt64(d.IsEnabled),
		LastRunAt:      timex.Time(d.LastRunAt),
		LastRunStatus:  d.LastRunStatus,
		LastRunMessage: d.LastRunMessage,
		NextRunAt:      timex.Time(d.NextRunAt),
		CreatedAt:      timex.Time(d.CreatedAt),
		UpdatedAt:      timex.Time(d.UpdatedAt),
	}
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*domain.BackupSchedule, error) {
	var m model.BackupSchedule
	err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *scheduleRepository) List(ctx context.Context) ([]*domain.BackupSchedule, error) {
	var models []*model.BackupSchedule
	err := r.dao.db.WithContext(ctx).Order("id").Find(&models).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.BackupSchedule
	for _, m := range models {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

func (r *scheduleRepository) ListEnabled(ctx context.Context) ([]*domain.BackupSchedule, error) {
	var models []*model.BackupSchedule
	err := r.dao.db.WithContext(ctx).Where("is_enabled = ?", 1).Order("id").Find(&models).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.BackupSchedule
	for _, m := range models {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

func (r *scheduleRepository) CountByProvider(ctx context.Context, provider string, enabledOnly bool) (int64, error) {
	var count int64
	q := r.dao.db.WithContext(ctx).Model(&model.BackupSchedule{}).Where("provider = ?", provider)
	if enabledOnly {
		q = q.Where("is_enabled = ?", 1)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *domain.BackupSchedule) (*domain.BackupSchedule, error) {
	m := r.toModel(schedule)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *domain.BackupSchedule) error {
	m := r.toModel(schedule)
	m.UpdatedAt = timex.Now()
	return r.dao.db.WithContext(ctx).Model(&model.BackupSchedule{}).
		Where("id = ?", m.ID).
		Select("name", "provider", "cron_expression", "retention_days",
			"include_images", "compress", "encrypt", "is_enabled",
			"next_run_at", "updated_at").
		Updates(m).Error
}

func (r *scheduleRepository) UpdateEnabled(ctx context.Context, id int64, enabled bool, nextRunAt time.Time) error {
	return r.dao.db.WithContext(ctx).Model(&model.BackupSchedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_enabled":  boolToInt64(enabled),
			"next_run_at": timex.Time(nextRunAt),
			"updated_at":  timex.Now(),
		}).Error
}

func (r *scheduleRepository) UpdateRunResult(ctx context.Context, id int64, status, message string, lastRunAt, nextRunAt time.Time) error {
	return r.dao.db.WithContext(ctx).Model(&model.BackupSchedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run_status":  status,
			"last_run_message": message,
			"last_run_at":      timex.Time(lastRunAt),
			"next_run_at":      timex.Time(nextRunAt),
			"updated_at":       timex.Now(),
		}).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BackupSchedule{}).Error
}

var _ domain.ScheduleRepository = (*scheduleRepository)(nil)
