package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/analyzer"
	"github.com/hometracker/home-backup-service/pkg/code"
)

// SettingService is the pass-through for the analysis capability
// credentials. The service stores them; it never calls the vendor itself.
type SettingService interface {
	GetAISettings(ctx context.Context) (*dto.AISettingsDTO, error)
	UpdateAISettings(ctx context.Context, req *dto.AISettingsRequest) error

	// NewAnalyzer builds an analysis client from the stored settings.
	NewAnalyzer(ctx context.Context) (analyzer.Analyzer, error)
}

type settingService struct {
	repo   domain.SettingRepository
	logger *zap.Logger
}

// NewSettingService creates a SettingService instance.
func NewSettingService(repo domain.SettingRepository, logger *zap.Logger) SettingService {
	return &settingService{repo: repo, logger: logger}
}

func (s *settingService) GetAISettings(ctx context.Context) (*dto.AISettingsDTO, error) {
	endpoint, err := s.repo.Get(ctx, domain.SettingAIEndpoint)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	model, err := s.repo.Get(ctx, domain.SettingAIModel)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	apiKey, err := s.repo.Get(ctx, domain.SettingAIAPIKey)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return &dto.AISettingsDTO{
		Endpoint:  endpoint,
		Model:     model,
		APIKeySet: apiKey != "",
	}, nil
}

func (s *settingService) UpdateAISettings(ctx context.Context, req *dto.AISettingsRequest) error {
	pairs := map[string]string{
		domain.SettingAIEndpoint: req.Endpoint,
		domain.SettingAIModel:    req.Model,
	}
	// An empty key keeps the stored one so operators can update the
	// endpoint without re-entering the credential.
	if req.APIKey != "" {
		pairs[domain.SettingAIAPIKey] = req.APIKey
	}

	for key, value := range pairs {
		if err := s.repo.Set(ctx, key, value); err != nil {
			return code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	s.logger.Info("analysis settings updated")
	return nil
}

func (s *settingService) NewAnalyzer(ctx context.Context) (analyzer.Analyzer, error) {
	endpoint, err := s.repo.Get(ctx, domain.SettingAIEndpoint)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.repo.Get(ctx, domain.SettingAIAPIKey)
	if err != nil {
		return nil, err
	}
	if endpoint == "" || apiKey == "" {
		return nil, analyzer.ErrNotConfigured
	}
	model, err := s.repo.Get(ctx, domain.SettingAIModel)
	if err != nil {
		return nil, err
	}

	return analyzer.NewOpenAIClient(analyzer.Config{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
	}), nil
}

var _ SettingService = (*settingService)(nil)
