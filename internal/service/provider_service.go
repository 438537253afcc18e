package service

import (
	"context"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/logger"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// ProviderService manages storage providers: persistence, registry
// lifecycle and connectivity checks.
type ProviderService interface {
	// Bootstrap registers the built-in local provider and every persisted
	// provider at startup. Unreachable remote providers are logged and
	// skipped, not fatal.
	Bootstrap(ctx context.Context) error

	List(ctx context.Context) ([]*dto.ProviderDTO, error)
	Add(ctx context.Context, req *dto.ProviderAddRequest) (*dto.ProviderDTO, error)
	Remove(ctx context.Context, name string) error
	Test(ctx context.Context, name string) (*dto.ProviderTestDTO, error)
}

type providerService struct {
	providerRepo  domain.ProviderRepository
	scheduleRepo  domain.ScheduleRepository
	registry      *storage.Registry
	localSavePath string
	logger        *zap.Logger
}

// NewProviderService creates a ProviderService instance.
func NewProviderService(
	providerRepo domain.ProviderRepository,
	scheduleRepo domain.ScheduleRepository,
	registry *storage.Registry,
	localSavePath string,
	logger *zap.Logger,
) ProviderService {
	return &providerService{
		providerRepo:  providerRepo,
		scheduleRepo:  scheduleRepo,
		registry:      registry,
		localSavePath: localSavePath,
		logger:        logger,
	}
}

func (s *providerService) Bootstrap(ctx context.Context) error {
	local, err := storage.NewLocalFS(&storage.Config{
		Name:     storage.LocalName,
		Kind:     storage.Local,
		SavePath: s.localSavePath,
	})
	if err != nil {
		return err
	}
	if err := s.registry.Register(local); err != nil {
		return err
	}

	persisted, err := s.providerRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range persisted {
		provider, err := storage.NewClient(s.configFromDomain(p))
		if err != nil {
			s.logger.Warn("skipping unreachable provider at startup",
				zap.String(logger.FieldProvider, p.Name), zap.Error(err))
			continue
		}
		if err := s.registry.Register(provider); err != nil {
			s.logger.Warn("skipping duplicate provider at startup",
				zap.String(logger.FieldProvider, p.Name), zap.Error(err))
		}
	}
	return nil
}

func (s *providerService) configFromDomain(p *domain.Provider) *storage.Config {
	return &storage.Config{
		Name:           p.Name,
		Kind:           storage.Kind(p.Kind),
		URL:            p.URL,
		User:           p.User,
		Password:       p.Password,
		BasePath:       p.BasePath,
		TimeoutSeconds: p.TimeoutSeconds,
	}
}

func (s *providerService) toDTO(p storage.Provider, createdAt timex.Time) *dto.ProviderDTO {
	d := &dto.ProviderDTO{
		Name:      p.Name(),
		Kind:      string(p.Kind()),
		Connected: p.IsConnected(),
		CreatedAt: createdAt,
	}
	if stats, err := p.GetStats(); err == nil {
		d.TotalFiles = stats.TotalFiles
		d.TotalSize = stats.TotalSize
		d.SizeHuman = humanize.Bytes(uint64(stats.TotalSize))
	}
	return d
}

func (s *providerService) List(ctx context.Context) ([]*dto.ProviderDTO, error) {
	persisted, err := s.providerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	created := make(map[string]timex.Time, len(persisted))
	for _, p := range persisted {
		created[p.Name] = timex.Time(p.CreatedAt)
	}

	var result []*dto.ProviderDTO
	for _, p := range s.registry.All() {
		result = append(result, s.toDTO(p, created[p.Name()]))
	}
	return result, nil
}

func (s *providerService) Add(ctx context.Context, req *dto.ProviderAddRequest) (*dto.ProviderDTO, error) {
	// Local is built in; webdav is the only kind that can be added.
	if req.Kind != "" && storage.Kind(req.Kind) != storage.WebDAV {
		return nil, code.ErrorProviderKindInvalid
	}
	if _, ok := s.registry.Get(req.Name); ok {
		return nil, code.ErrorProviderExists
	}
	if existing, err := s.providerRepo.GetByName(ctx, req.Name); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	} else if existing != nil {
		return nil, code.ErrorProviderExists
	}

	conf := &storage.Config{
		Name:           req.Name,
		Kind:           storage.WebDAV,
		URL:            req.URL,
		User:           req.Username,
		Password:       req.Password,
		BasePath:       req.BasePath,
		TimeoutSeconds: req.TimeoutSeconds,
	}
	provider, err := storage.NewClient(conf)
	if err != nil {
		return nil, code.ErrorProviderUnreachable.WithDetails(err.Error())
	}

	saved, err := s.providerRepo.Create(ctx, &domain.Provider{
		Name:           req.Name,
		Kind:           string(storage.WebDAV),
		URL:            req.URL,
		User:           req.Username,
		Password:       req.Password,
		BasePath:       req.BasePath,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.registry.Register(provider); err != nil {
		return nil, code.ErrorProviderExists
	}

	s.logger.Info("provider added",
		zap.String(logger.FieldProvider, req.Name), zap.String("kind", string(storage.WebDAV)))
	return s.toDTO(provider, timex.Time(saved.CreatedAt)), nil
}

func (s *providerService) Remove(ctx context.Context, name string) error {
	if name == storage.LocalName {
		return code.ErrorProviderProtected
	}
	if _, ok := s.registry.Get(name); !ok {
		return code.ErrorProviderNotFound
	}

	count, err := s.scheduleRepo.CountByProvider(ctx, name, true)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if count > 0 {
		return code.ErrorProviderInUse
	}

	if err := s.providerRepo.Delete(ctx, name); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if err := s.registry.Remove(name); err != nil {
		return code.ErrorProviderProtected
	}

	s.logger.Info("provider removed", zap.String(logger.FieldProvider, name))
	return nil
}

func (s *providerService) Test(ctx context.Context, name string) (*dto.ProviderTestDTO, error) {
	provider, ok := s.registry.Get(name)
	if !ok {
		return nil, code.ErrorProviderNotFound
	}

	result := provider.TestConnection()
	return &dto.ProviderTestDTO{
		OK:        result.OK,
		LatencyMs: result.LatencyMs,
		Error:     result.Error,
	}, nil
}

var _ ProviderService = (*providerService)(nil)
