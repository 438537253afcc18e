package service

import (
	"context"
	"encoding/json"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/analyzer"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/logger"
	"github.com/hometracker/home-backup-service/pkg/metrics"
	"github.com/hometracker/home-backup-service/pkg/timex"
	"github.com/hometracker/home-backup-service/pkg/workerpool"
)

// AIJobService accepts batches of analysis items and processes them
// asynchronously. Items of one job run sequentially in submission order so
// the processed count only grows; the worker pool bounds how many jobs
// process at once. Clients observe progress by polling Status.
type AIJobService interface {
	Create(ctx context.Context, req *dto.AIJobCreateRequest) (*dto.AIJobCreatedDTO, error)

	// Status returns the immediate snapshot; it never blocks on progress.
	Status(ctx context.Context, id string) (*dto.AIJobDTO, error)

	Items(ctx context.Context, id string) ([]*dto.AIJobItemDTO, error)

	// ReconcileOrphans fails jobs left queued or processing by an earlier
	// process, so pollers are not stuck on a job nobody owns.
	ReconcileOrphans(ctx context.Context) error
}

// AnalyzerFactory builds the analysis client from the stored pass-through
// settings at job start, so credential updates apply to the next job.
type AnalyzerFactory func(ctx context.Context) (analyzer.Analyzer, error)

type aiJobService struct {
	repo       domain.AIJobRepository
	pool       *workerpool.Pool
	newClient  AnalyzerFactory
	imageRoot  string
	itemBudget time.Duration
	logger     *zap.Logger
}

// NewAIJobService creates an AIJobService instance.
func NewAIJobService(
	repo domain.AIJobRepository,
	pool *workerpool.Pool,
	newClient AnalyzerFactory,
	imageRoot string,
	logger *zap.Logger,
) AIJobService {
	return &aiJobService{
		repo:       repo,
		pool:       pool,
		newClient:  newClient,
		imageRoot:  imageRoot,
		itemBudget: 2 * time.Minute,
		logger:     logger,
	}
}

func (s *aiJobService) Create(ctx context.Context, req *dto.AIJobCreateRequest) (*dto.AIJobCreatedDTO, error) {
	if len(req.Items) == 0 {
		return nil, code.ErrorJobNoItems
	}
	switch req.Type {
	case domain.JobTypeInventoryDetection, domain.JobTypeWarrantyDetection:
	default:
		return nil, code.ErrorJobTypeInvalid
	}

	// A job with no configured analyzer is rejected at submission, not queued.
	if _, err := s.newClient(ctx); errors.Is(err, analyzer.ErrNotConfigured) {
		return nil, code.ErrorAINotConfigured
	}

	job := &domain.AIJob{
		ID:         uuid.NewString(),
		Type:       req.Type,
		Status:     domain.JobStatusQueued,
		TotalItems: len(req.Items),
	}
	items := make([]*domain.AIJobItem, 0, len(req.Items))
	for i, ref := range req.Items {
		items = append(items, &domain.AIJobItem{
			JobID:    job.ID,
			Position: i,
			ImageRef: ref,
			Status:   domain.ItemStatusPending,
		})
	}

	if err := s.repo.CreateJob(ctx, job, items); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.pool.SubmitAsync(context.Background(), func(workerCtx context.Context) error {
		s.process(workerCtx, job.ID)
		return nil
	}); err != nil {
		// Queue is saturated; fail the job right away so the poller is not
		// left waiting on a run that will never start.
		_ = s.repo.FinishJob(ctx, job.ID, domain.JobStatusFailed, "analysis queue is full", time.Now())
		return nil, code.ErrorJobQueueFull
	}

	s.logger.Info("analysis job queued",
		zap.String(logger.FieldJobID, job.ID),
		zap.String("type", job.Type),
		zap.Int("items", job.TotalItems))
	return &dto.AIJobCreatedDTO{JobID: job.ID}, nil
}

// process runs one job to completion. Item failures are recorded on the
// item only; the job fails solely on conditions that make every remaining
// call pointless, such as rejected credentials.
func (s *aiJobService) process(ctx context.Context, jobID string) {
	if err := s.repo.UpdateJobStatus(ctx, jobID, domain.JobStatusProcessing); err != nil {
		s.logger.Error("failed to mark job processing", zap.String(logger.FieldJobID, jobID), zap.Error(err))
		return
	}

	client, err := s.newClient(ctx)
	if err != nil {
		s.finish(ctx, jobID, domain.JobStatusFailed, err.Error())
		return
	}

	items, err := s.repo.ListItems(ctx, jobID)
	if err != nil {
		s.finish(ctx, jobID, domain.JobStatusFailed, "failed to load job items: "+err.Error())
		return
	}

	processed := 0
	created := 0
	for _, item := range items {
		result, itemErr := s.analyzeItem(ctx, client, item)

		if itemErr != nil && analyzer.IsJobFatal(itemErr) {
			metrics.AnalysisJobs.WithLabelValues(domain.JobStatusFailed).Inc()
			s.finish(ctx, jobID, domain.JobStatusFailed, itemErr.Error())
			return
		}

		processed++
		if itemErr != nil {
			metrics.AnalysisItems.WithLabelValues(domain.ItemStatusError).Inc()
			if err := s.repo.UpdateItem(ctx, item.ID, domain.ItemStatusError, "", itemErr.Error()); err != nil {
				s.logger.Error("failed to record item error", zap.String(logger.FieldJobID, jobID), zap.Error(err))
			}
		} else {
			created++
			metrics.AnalysisItems.WithLabelValues(domain.ItemStatusOK).Inc()
			if err := s.repo.UpdateItem(ctx, item.ID, domain.ItemStatusOK, result, ""); err != nil {
				s.logger.Error("failed to record item result", zap.String(logger.FieldJobID, jobID), zap.Error(err))
			}
		}

		if err := s.repo.UpdateJobProgress(ctx, jobID, processed, created); err != nil {
			s.logger.Error("failed to record job progress", zap.String(logger.FieldJobID, jobID), zap.Error(err))
		}
	}

	metrics.AnalysisJobs.WithLabelValues(domain.JobStatusCompleted).Inc()
	s.finish(ctx, jobID, domain.JobStatusCompleted, "")
	s.logger.Info("analysis job completed",
		zap.String(logger.FieldJobID, jobID),
		zap.Int("processed", processed),
		zap.Int("created", created))
}

func (s *aiJobService) analyzeItem(ctx context.Context, client analyzer.Analyzer, item *domain.AIJobItem) (string, error) {
	// Image refs must stay inside the upload root.
	ref := filepath.Clean(filepath.FromSlash(item.ImageRef))
	if filepath.IsAbs(ref) || ref == ".." || strings.HasPrefix(ref, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("image ref escapes the upload root: %s", item.ImageRef)
	}

	imagePath := filepath.Join(s.imageRoot, ref)
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}

	itemCtx, cancel := context.WithTimeout(ctx, s.itemBudget)
	defer cancel()

	mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
	result, err := client.AnalyzeImage(itemCtx, data, mimeType)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// finish writes the terminal state with a fresh context so it survives
// worker cancellation.
func (s *aiJobService) finish(_ context.Context, jobID, status, errorMessage string) {
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.repo.FinishJob(saveCtx, jobID, status, errorMessage, time.Now()); err != nil {
		s.logger.Error("failed to persist job terminal state",
			zap.String(logger.FieldJobID, jobID), zap.String("status", status), zap.Error(err))
	}
}

func (s *aiJobService) Status(ctx context.Context, id string) (*dto.AIJobDTO, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if job == nil {
		return nil, code.ErrorJobNotFound
	}

	d := &dto.AIJobDTO{
		ID:             job.ID,
		Type:           job.Type,
		Status:         job.Status,
		TotalItems:     job.TotalItems,
		ProcessedItems: job.ProcessedItems,
		CreatedItems:   job.CreatedItems,
		StartedAt:      timex.Time(job.StartedAt),
		FinishedAt:     timex.Time(job.FinishedAt),
		CreatedAt:      timex.Time(job.CreatedAt),
	}
	if job.ErrorMessage != "" {
		msg := job.ErrorMessage
		d.ErrorMessage = &msg
	}
	return d, nil
}

func (s *aiJobService) Items(ctx context.Context, id string) ([]*dto.AIJobItemDTO, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if job == nil {
		return nil, code.ErrorJobNotFound
	}

	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	var result []*dto.AIJobItemDTO
	for _, item := range items {
		result = append(result, &dto.AIJobItemDTO{
			Position: item.Position,
			ImageRef: item.ImageRef,
			Status:   item.Status,
			Result:   item.Result,
			Error:    item.Error,
		})
	}
	return result, nil
}

func (s *aiJobService) ReconcileOrphans(ctx context.Context) error {
	orphans, err := s.repo.ListJobsByStatus(ctx, domain.JobStatusQueued, domain.JobStatusProcessing)
	if err != nil {
		return err
	}
	for _, job := range orphans {
		if err := s.repo.FinishJob(ctx, job.ID, domain.JobStatusFailed, "interrupted by service restart", time.Now()); err != nil {
			s.logger.Error("failed to reconcile orphaned job",
				zap.String(logger.FieldJobID, job.ID), zap.Error(err))
			continue
		}
		s.logger.Warn("orphaned analysis job marked failed", zap.String(logger.FieldJobID, job.ID))
	}
	return nil
}

var _ AIJobService = (*aiJobService)(nil)
