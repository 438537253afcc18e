package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hometracker/home-backup-service/internal/domain"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngine(Database{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	return New(db)
}

func TestScheduleRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewScheduleRepository(d)
	ctx := context.Background()

	missing, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.Create(ctx, &domain.BackupSchedule{
		Name:           "nightly",
		Provider:       "local",
		CronExpression: "0 3 * * *",
		RetentionDays:  14,
		IncludeImages:  true,
		Compress:       true,
		Encrypt:        false,
		IsEnabled:      true,
		NextRunAt:      time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "nightly", got.Name)
	assert.Equal(t, "local", got.Provider)
	assert.Equal(t, "0 3 * * *", got.CronExpression)
	assert.Equal(t, 14, got.RetentionDays)
	assert.True(t, got.IncludeImages)
	assert.True(t, got.Compress)
	assert.False(t, got.Encrypt)
	assert.True(t, got.IsEnabled)
	assert.False(t, got.NextRunAt.IsZero())

	disabled, err := repo.Create(ctx, &domain.BackupSchedule{
		Name:           "weekly",
		Provider:       "nas",
		CronExpression: "0 4 * * 0",
		IsEnabled:      false,
	})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, created.ID, enabled[0].ID)

	count, err := repo.CountByProvider(ctx, "nas", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.CountByProvider(ctx, "nas", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.UpdateEnabled(ctx, disabled.ID, true, time.Now().Add(2*time.Hour)))
	enabled, err = repo.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Len(t, enabled, 2)

	lastRun := time.Now()
	nextRun := lastRun.Add(24 * time.Hour)
	require.NoError(t, repo.UpdateRunResult(ctx, created.ID, "failed", "provider not found: nas", lastRun, nextRun))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.LastRunStatus)
	assert.Equal(t, "provider not found: nas", got.LastRunMessage)
	assert.False(t, got.LastRunAt.IsZero())

	require.NoError(t, repo.Delete(ctx, created.ID))
	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProviderRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewProviderRepository(d)
	ctx := context.Background()

	missing, err := repo.GetByName(ctx, "nas")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.Create(ctx, &domain.Provider{
		Name:           "nas",
		Kind:           "webdav",
		URL:            "https://dav.example.com",
		User:           "backup",
		Password:       "secret",
		BasePath:       "/backups",
		TimeoutSeconds: 30,
	})
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, "nas")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "webdav", got.Kind)
	assert.Equal(t, "https://dav.example.com", got.URL)
	assert.Equal(t, "/backups", got.BasePath)
	assert.Equal(t, 30, got.TimeoutSeconds)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, "nas"))
	got, err = repo.GetByName(ctx, "nas")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAIJobRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewAIJobRepository(d)
	ctx := context.Background()

	missing, err := repo.GetJob(ctx, "no-such-job")
	require.NoError(t, err)
	assert.Nil(t, missing)

	items := []*domain.AIJobItem{
		{Position: 0, ImageRef: "images/a.jpg", Status: domain.ItemStatusPending},
		{Position: 1, ImageRef: "images/b.jpg", Status: domain.ItemStatusPending},
	}
	err = repo.CreateJob(ctx, &domain.AIJob{
		ID:         "job-1",
		Type:       domain.JobTypeInventoryDetection,
		Status:     domain.JobStatusQueued,
		TotalItems: 2,
	}, items)
	require.NoError(t, err)
	assert.NotZero(t, items[0].ID, "item ids must be filled in on create")

	got, err := repo.GetJob(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.JobStatusQueued, got.Status)
	assert.Equal(t, 2, got.TotalItems)

	listed, err := repo.ListItems(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "images/a.jpg", listed[0].ImageRef)
	assert.Equal(t, "images/b.jpg", listed[1].ImageRef)

	require.NoError(t, repo.UpdateJobStatus(ctx, "job-1", domain.JobStatusProcessing))
	got, err = repo.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, got.Status)
	assert.False(t, got.StartedAt.IsZero())

	require.NoError(t, repo.UpdateItem(ctx, items[0].ID, domain.ItemStatusOK, `{"name":"Drill"}`, ""))
	require.NoError(t, repo.UpdateItem(ctx, items[1].ID, domain.ItemStatusError, "", "image not found"))
	listed, err = repo.ListItems(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusOK, listed[0].Status)
	assert.Equal(t, `{"name":"Drill"}`, listed[0].Result)
	assert.Equal(t, domain.ItemStatusError, listed[1].Status)
	assert.Equal(t, "image not found", listed[1].Error)

	require.NoError(t, repo.UpdateJobProgress(ctx, "job-1", 2, 1))
	require.NoError(t, repo.FinishJob(ctx, "job-1", domain.JobStatusCompleted, "", time.Now()))
	got, err = repo.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, got.Status)
	assert.Equal(t, 2, got.ProcessedItems)
	assert.Equal(t, 1, got.CreatedItems)
	assert.False(t, got.FinishedAt.IsZero())

	stale, err := repo.ListJobsByStatus(ctx, domain.JobStatusQueued, domain.JobStatusProcessing)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestSettingRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewSettingRepository(d)
	ctx := context.Background()

	val, err := repo.Get(ctx, "ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, repo.Set(ctx, "ai_provider", "openai"))
	val, err = repo.Get(ctx, "ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "openai", val)

	require.NoError(t, repo.Set(ctx, "ai_provider", "gemini"))
	val, err = repo.Get(ctx, "ai_provider")
	require.NoError(t, err)
	assert.Equal(t, "gemini", val)
}
