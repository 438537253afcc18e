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

type providerRepository struct {
	dao *Dao
}

// NewProviderRepository creates a ProviderRepository instance.
func NewProviderRepository(dao *Dao) domain.ProviderRepository {
	return &providerRepository{dao: dao}
}

func (r *providerRepository) toDomain(m *model.Provider) *domain.Provider {
	if m == nil {
		return nil
	}
	return &domain.Provider{
		ID:             m.ID,
		Name:           m.Name,
		Kind:           m.Kind,
		URL:            m.URL,
		User:           m.User,
		Password:       m.Password,
		BasePath:       m.BasePath,
		TimeoutSeconds: int(m.TimeoutSeconds),
		CreatedAt:      time.Time(m.CreatedAt),
		UpdatedAt:      time.Time(m.UpdatedAt),
	}
}

func (r *providerRepository) toModel(d *domain.Provider) *model.Provider {
	if d == nil {
		return nil
	}
	return &model.Provider{
		ID:             d.ID,
		Name:           d.Name,
		Kind:           d.Kind,
		URL:            d.URL,
		User:           d.User,
		Password:       d.Password,
		BasePath:       d.BasePath,
		TimeoutSeconds: int64(d.TimeoutSeconds),
		CreatedAt:      timex.Time(d.CreatedAt),
		UpdatedAt:      timex.Time(d.UpdatedAt),
	}
}

func (r *providerRepository) GetByName(ctx context.Context, name string) (*domain.Provider, error) {
	var m model.Provider
	err := r.dao.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *providerRepository) List(ctx context.Context) ([]*domain.Provider, error) {
	var models []*model.Provider
	err := r.dao.db.WithContext(ctx).Order("name").Find(&models).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.Provider
	for _, m := range models {
		result = append(result, r.toDomain(m))
	}
	return result, nil
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) (*domain.Provider, error) {
	m := r.toModel(provider)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *providerRepository) Delete(ctx context.Context, name string) error {
	return r.dao.db.WithContext(ctx).Where("name = ?", name).Delete(&model.Provider{}).Error
}

var _ domain.ProviderRepository = (*providerRepository)(nil)
