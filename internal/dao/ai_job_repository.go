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

type aiJobRepository struct {
	dao *Dao
}

// NewAIJobRepository creates an AIJobRepository instance.
func NewAIJobRepository(dao *Dao) domain.AIJobRepository {
	return &aiJobRepository{dao: dao}
}

func (r *aiJobRepository) jobToDomain(m *model.AIJob) *domain.AIJob {
	if m == nil {
		return nil
	}
	return &domain.AIJob{
		ID:             m.ID,
		Type:           m.Type,
		Status:         m.Status,
		TotalItems:     int(m.TotalItems),
		ProcessedItems: int(m.ProcessedItems),
		CreatedItems:   int(m.CreatedItems),
		ErrorMessage:   m.ErrorMessage,
		StartedAt:      time.Time(m.StartedAt),
		FinishedAt:     time.Time(m.FinishedAt),
		CreatedAt:      time.Time(m.CreatedAt),
		UpdatedAt:      time.Time(m.UpdatedAt),
	}
}

func (r *aiJobRepository) itemToDomain(m *model.AIJobItem) *domain.AIJobItem {
	if m == nil {
		return nil
	}
	return &domain.AIJobItem{
		ID:        m.ID,
		JobID:     m.JobID,
		Position:  int(m.Position),
		ImageRef:  m.ImageRef,
		Status:    m.Status,
		Result:    m.Result,
		Error:     m.Error,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

func (r *aiJobRepository) GetJob(ctx context.Context, id string) (*domain.AIJob, error) {
	var m model.AIJob
	err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.jobToDomain(&m), nil
}

func (r *aiJobRepository) ListJobs(ctx context.Context, page, pageSize int) ([]*domain.AIJob, int64, error) {
	var count int64
	if err := r.dao.db.WithContext(ctx).Model(&model.AIJob{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var models []*model.AIJob
	err := r.dao.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	var result []*domain.AIJob
	for _, m := range models {
		result = append(result, r.jobToDomain(m))
	}
	return result, count, nil
}

func (r *aiJobRepository) ListJobsByStatus(ctx context.Context, statuses ...string) ([]*domain.AIJob, error) {
	var models []*model.AIJob
	err := r.dao.db.WithContext(ctx).Where("status IN ?", statuses).Find(&models).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.AIJob
	for _, m := range models {
		result = append(result, r.jobToDomain(m))
	}
	return result, nil
}

func (r *aiJobRepository) CreateJob(ctx context.Context, job *domain.AIJob, items []*domain.AIJobItem) error {
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := &model.AIJob{
			ID:         job.ID,
			Type:       job.Type,
			Status:     job.Status,
			TotalItems: int64(job.TotalItems),
			CreatedAt:  timex.Now(),
			UpdatedAt:  timex.Now(),
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		for _, item := range items {
			im := &model.AIJobItem{
				JobID:     job.ID,
				Position:  int64(item.Position),
				ImageRef:  item.ImageRef,
				Status:    item.Status,
				CreatedAt: timex.Now(),
				UpdatedAt: timex.Now(),
			}
			if err := tx.Create(im).Error; err != nil {
				return err
			}
			item.ID = im.ID
		}
		return nil
	})
}

func (r *aiJobRepository) ListItems(ctx context.Context, jobID string) ([]*domain.AIJobItem, error) {
	var models []*model.AIJobItem
	err := r.dao.db.WithContext(ctx).Where("job_id = ?", jobID).Order("position").Find(&models).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.AIJobItem
	for _, m := range models {
		result = append(result, r.itemToDomain(m))
	}
	return result, nil
}

func (r *aiJobRepository) UpdateJobStatus(ctx context.Context, id, status string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": timex.Now(),
	}
	if status == domain.JobStatusProcessing {
		updates["started_at"] = timex.Now()
	}
	return r.dao.db.WithContext(ctx).Model(&model.AIJob{}).Where("id = ?", id).Updates(updates).Error
}

func (r *aiJobRepository) UpdateJobProgress(ctx context.Context, id string, processedItems, createdItems int) error {
	return r.dao.db.WithContext(ctx).Model(&model.AIJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_items": processedItems,
			"created_items":   createdItems,
			"updated_at":      timex.Now(),
		}).Error
}

func (r *aiJobRepository) FinishJob(ctx context.Context, id, status, errorMessage string, finishedAt time.Time) error {
	return r.dao.db.WithContext(ctx).Model(&model.AIJob{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        status,
			"error_message": errorMessage,
			"finished_at":   timex.Time(finishedAt),
			"updated_at":    timex.Now(),
		}).Error
}

func (r *aiJobRepository) UpdateItem(ctx context.Context, itemID int64, status, result, errMsg string) error {
	return r.dao.db.WithContext(ctx).Model(&model.AIJobItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"status":     status,
			"result":     result,
			"error":      errMsg,
			"updated_at": timex.Now(),
		}).Error
}

var _ domain.AIJobRepository = (*aiJobRepository)(nil)
