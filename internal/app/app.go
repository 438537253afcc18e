package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hometracker/home-backup-service/internal/dao"
	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/service"
	pkgapp "github.com/hometracker/home-backup-service/pkg/app"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/workerpool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the application container holding all dependencies and services.
type App struct {
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	workerPool *workerpool.Pool
	Registry   *storage.Registry

	// Repository layer
	ProviderRepo domain.ProviderRepository
	ScheduleRepo domain.ScheduleRepository
	AIJobRepo    domain.AIJobRepository
	SettingRepo  domain.SettingRepository

	// Service layer
	ProviderService service.ProviderService
	ScheduleService service.ScheduleService
	RestoreService  service.RestoreService
	AIJobService    service.AIJobService
	SettingService  service.SettingService

	StartTime  time.Time
	shutdownCh chan struct{}
}

// NewApp creates the application container and wires all dependencies.
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(wpConfig, logger)
	a.Registry = storage.NewRegistry()

	a.Dao = dao.New(db)

	a.ProviderRepo = dao.NewProviderRepository(a.Dao)
	a.ScheduleRepo = dao.NewScheduleRepository(a.Dao)
	a.AIJobRepo = dao.NewAIJobRepository(a.Dao)
	a.SettingRepo = dao.NewSettingRepository(a.Dao)

	snapshot := service.NewDataSnapshot(db, cfg.Backup.Tables, cfg.Backup.ImagesPath, logger)
	runner := service.NewBackupRunner(snapshot, cfg.Backup.EncryptKey, logger)

	a.ProviderService = service.NewProviderService(a.ProviderRepo, a.ScheduleRepo, a.Registry, cfg.Backup.LocalSavePath, logger)
	a.ScheduleService = service.NewScheduleService(a.ScheduleRepo, a.Registry, runner, logger)
	a.RestoreService = service.NewRestoreService(a.Registry, snapshot, cfg.Backup.EncryptKey, logger)
	a.SettingService = service.NewSettingService(a.SettingRepo, logger)
	a.AIJobService = service.NewAIJobService(a.AIJobRepo, a.workerPool, a.SettingService.NewAnalyzer, cfg.App.UploadSavePath, logger)

	logger.Info("app container initialized",
		zap.Int("maxConcurrentJobs", wpConfig.MaxWorkers),
		zap.Strings("snapshotTables", cfg.Backup.Tables))

	return a, nil
}

// Config returns the application configuration.
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version returns the build version information.
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode reports whether the log configuration is production.
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("database connection closed")
	}
	return nil
}

// DefaultShutdownTimeout bounds graceful shutdown when no context is given.
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown closes the container in order: running backups, worker pool,
// database.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("app container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	if a.ScheduleService != nil {
		if err := a.ScheduleService.Shutdown(ctx); err != nil {
			a.logger.Warn("schedule service shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("schedule service shutdown: %w", err))
		}
	}

	if a.workerPool != nil {
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("app container shutdown completed")
	return nil
}

// IsShuttingDown reports whether shutdown has started.
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}
