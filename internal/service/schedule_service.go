package service

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/logger"
	"github.com/hometracker/home-backup-service/pkg/metrics"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/timex"
)

// ScheduleService holds the backup schedules and owns the per-schedule run
// lock: within one schedule no two runs ever execute concurrently, across
// schedules runs are independent.
type ScheduleService interface {
	List(ctx context.Context) ([]*dto.ScheduleDTO, error)
	Create(ctx context.Context, req *dto.ScheduleCreateRequest) (*dto.ScheduleDTO, error)
	Toggle(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error

	// RunNow bypasses the cron due-check but still takes the run lock; a
	// concurrent run of the same schedule is rejected, never doubled.
	RunNow(ctx context.Context, id int64) (*dto.RunResultDTO, error)

	// RunDueSchedules fires every enabled schedule whose next-run hint has
	// passed. Runs execute as independent goroutines so a slow backup never
	// delays the evaluation of other schedules.
	RunDueSchedules(ctx context.Context) error

	ListBackups(ctx context.Context) ([]*dto.BackupRecordDTO, error)
	Stats(ctx context.Context) (*dto.StorageStatsDTO, error)

	Shutdown(ctx context.Context) error
}

type scheduleService struct {
	repo     domain.ScheduleRepository
	registry *storage.Registry
	runner   *BackupRunner
	logger   *zap.Logger

	running   map[int64]struct{}
	runningMu sync.Mutex
	wg        sync.WaitGroup
}

// NewScheduleService creates a ScheduleService instance.
func NewScheduleService(
	repo domain.ScheduleRepository,
	registry *storage.Registry,
	runner *BackupRunner,
	logger *zap.Logger,
) ScheduleService {
	return &scheduleService{
		repo:     repo,
		registry: registry,
		runner:   runner,
		logger:   logger,
		running:  make(map[int64]struct{}),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextRunTime computes the next fire after now, or zero when the schedule
// is disabled. The persisted value is only a cached hint: recomputing on
// enable means fires missed while disabled are never replayed.
func nextRunTime(schedule *domain.BackupSchedule, now time.Time) time.Time {
	if !schedule.IsEnabled {
		return time.Time{}
	}
	sched, err := cronParser.Parse(schedule.CronExpression)
	if err != nil {
		return time.Time{}
	}
	return sched.Next(now)
}

func (s *scheduleService) toDTO(d *domain.BackupSchedule) *dto.ScheduleDTO {
	return &dto.ScheduleDTO{
		ID:             d.ID,
		Name:           d.Name,
		Provider:       d.Provider,
		CronExpression: d.CronExpression,
		RetentionDays:  d.RetentionDays,
		IncludeImages:  d.IncludeImages,
		Compress:       d.Compress,
		Encrypt:        d.Encrypt,
		Enabled:        d.IsEnabled,
		LastRunAt:      timex.Time(d.LastRunAt),
		LastRunStatus:  d.LastRunStatus,
		LastRunMessage: d.LastRunMessage,
		NextRunAt:      timex.Time(d.NextRunAt),
		CreatedAt:      timex.Time(d.CreatedAt),
	}
}

func (s *scheduleService) List(ctx context.Context) ([]*dto.ScheduleDTO, error) {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []*dto.ScheduleDTO
	for _, d := range schedules {
		result = append(result, s.toDTO(d))
	}
	return result, nil
}

// Create accepts a schedule whose provider is not registered yet: the
// reference is resolved at run time, so a provider added later just works
// and removing a provider never cascades into schedules.
func (s *scheduleService) Create(ctx context.Context, req *dto.ScheduleCreateRequest) (*dto.ScheduleDTO, error) {
	if _, err := cronParser.Parse(req.CronExpression); err != nil {
		return nil, code.ErrorScheduleCronInvalid.WithDetails(err.Error())
	}

	schedule := &domain.BackupSchedule{
		Name:           req.Name,
		Provider:       req.Provider,
		CronExpression: req.CronExpression,
		RetentionDays:  req.RetentionDays,
		IncludeImages:  req.IncludeImages,
		Compress:       req.Compress,
		Encrypt:        req.Encrypt,
		IsEnabled:      req.Enabled,
		LastRunStatus:  domain.RunStatusIdle,
	}
	schedule.NextRunAt = nextRunTime(schedule, time.Now())

	saved, err := s.repo.Create(ctx, schedule)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("schedule created",
		zap.Int64(logger.FieldScheduleID, saved.ID),
		zap.String(logger.FieldSchedule, saved.Name),
		zap.String(logger.FieldProvider, saved.Provider),
		zap.String("cron", saved.CronExpression))
	return s.toDTO(saved), nil
}

// Toggle only flips the flag. It never cancels an in-flight run and never
// retroactively fires a run missed while disabled.
func (s *scheduleService) Toggle(ctx context.Context, id int64, enabled bool) error {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if schedule == nil {
		return code.ErrorScheduleNotFound
	}

	schedule.IsEnabled = enabled
	next := nextRunTime(schedule, time.Now())
	if err := s.repo.UpdateEnabled(ctx, id, enabled, next); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("schedule toggled",
		zap.Int64(logger.FieldScheduleID, id), zap.Bool("enabled", enabled))
	return nil
}

func (s *scheduleService) Delete(ctx context.Context, id int64) error {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if schedule == nil {
		return code.ErrorScheduleNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	s.logger.Info("schedule deleted", zap.Int64(logger.FieldScheduleID, id))
	return nil
}

// tryLock marks the schedule as running. The second caller for the same
// schedule observes the lock and is turned away.
func (s *scheduleService) tryLock(id int64) bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if _, ok := s.running[id]; ok {
		return false
	}
	s.running[id] = struct{}{}
	return true
}

func (s *scheduleService) unlock(id int64) {
	s.runningMu.Lock()
	delete(s.running, id)
	s.runningMu.Unlock()
}

func (s *scheduleService) RunNow(ctx context.Context, id int64) (*dto.RunResultDTO, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if schedule == nil {
		return nil, code.ErrorScheduleNotFound
	}

	if !s.tryLock(id) {
		return nil, code.ErrorBackupAlreadyRunning
	}
	defer s.unlock(id)

	record, runErr := s.executeLocked(ctx, schedule)
	if runErr != nil {
		return &dto.RunResultDTO{Success: false, Error: runErr.Error()}, nil
	}
	return &dto.RunResultDTO{
		Success: true,
		Record: &dto.BackupRecordDTO{
			Provider:  record.Provider,
			Filename:  record.Filename,
			SizeBytes: record.SizeBytes,
			SizeHuman: humanize.Bytes(uint64(record.SizeBytes)),
			CreatedAt: timex.Time(record.CreatedAt),
		},
	}, nil
}

func (s *scheduleService) RunDueSchedules(ctx context.Context) error {
	schedules, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, schedule := range schedules {
		if schedule.NextRunAt.IsZero() || schedule.NextRunAt.After(now) {
			continue
		}
		if !s.tryLock(schedule.ID) {
			s.logger.Info("schedule still running, skipping tick",
				zap.Int64(logger.FieldScheduleID, schedule.ID), zap.String(logger.FieldSchedule, schedule.Name))
			continue
		}

		s.wg.Add(1)
		go func(schedule *domain.BackupSchedule) {
			defer s.wg.Done()
			defer s.unlock(schedule.ID)
			if _, err := s.executeLocked(ctx, schedule); err != nil {
				s.logger.Warn("scheduled backup failed",
					zap.Int64(logger.FieldScheduleID, schedule.ID),
					zap.String(logger.FieldSchedule, schedule.Name),
					zap.Error(err))
			}
		}(schedule)
	}
	return nil
}

// executeLocked runs one attempt. The caller holds the run lock. lastRunAt
// and lastRunStatus reflect the snapshot/transform/upload outcome only;
// pruning inside the runner never changes them.
func (s *scheduleService) executeLocked(ctx context.Context, schedule *domain.BackupSchedule) (*storage.BackupRecord, error) {
	started := time.Now()

	provider, ok := s.registry.Get(schedule.Provider)
	if !ok {
		err := code.ErrorProviderNotFound.WithDetails(schedule.Provider)
		s.finishRun(schedule, started, domain.RunStatusFailed, "provider not found: "+schedule.Provider)
		return nil, err
	}

	record, err := s.runner.Run(ctx, schedule, provider)
	if err != nil {
		s.finishRun(schedule, started, domain.RunStatusFailed, err.Error())
		return nil, err
	}

	s.finishRun(schedule, started, domain.RunStatusSuccess, "backup completed")
	return record, nil
}

// finishRun persists the run outcome with a fresh context so the update
// survives cancellation of the run's own context.
func (s *scheduleService) finishRun(schedule *domain.BackupSchedule, started time.Time, status, message string) {
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	metrics.BackupRuns.WithLabelValues(status).Inc()

	next := nextRunTime(schedule, time.Now())
	if err := s.repo.UpdateRunResult(saveCtx, schedule.ID, status, message, started, next); err != nil {
		s.logger.Error("failed to persist run result",
			zap.Int64(logger.FieldScheduleID, schedule.ID), zap.Error(err))
	}
}

func (s *scheduleService) ListBackups(ctx context.Context) ([]*dto.BackupRecordDTO, error) {
	var result []*dto.BackupRecordDTO
	for _, provider := range s.registry.All() {
		records, err := provider.List()
		if err != nil {
			s.logger.Warn("listing backups failed",
				zap.String(logger.FieldProvider, provider.Name()), zap.Error(err))
			continue
		}
		for _, rec := range records {
			result = append(result, &dto.BackupRecordDTO{
				Provider:  rec.Provider,
				Filename:  rec.Filename,
				SizeBytes: rec.SizeBytes,
				SizeHuman: humanize.Bytes(uint64(rec.SizeBytes)),
				CreatedAt: timex.Time(rec.CreatedAt),
			})
		}
	}
	return result, nil
}

func (s *scheduleService) Stats(ctx context.Context) (*dto.StorageStatsDTO, error) {
	stats := &dto.StorageStatsDTO{}
	var lastBackup time.Time

	for _, provider := range s.registry.All() {
		stats.Providers++
		records, err := provider.List()
		if err != nil {
			continue
		}
		for _, rec := range records {
			stats.TotalBackups++
			stats.TotalSize += rec.SizeBytes
			if rec.CreatedAt.After(lastBackup) {
				lastBackup = rec.CreatedAt
			}
		}
	}

	stats.SizeHuman = humanize.Bytes(uint64(stats.TotalSize))
	stats.LastBackupAt = timex.Time(lastBackup)
	return stats, nil
}

// Shutdown waits for in-flight runs to finish.
func (s *scheduleService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ScheduleService = (*scheduleService)(nil)
