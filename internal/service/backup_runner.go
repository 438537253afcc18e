package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/logger"
	"github.com/hometracker/home-backup-service/pkg/metrics"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/util"
)

// BackupRunner executes one backup attempt end to end: snapshot, transform,
// upload, prune.
type BackupRunner struct {
	source     SnapshotSource
	passphrase string
	logger     *zap.Logger
}

// NewBackupRunner creates a BackupRunner. The passphrase is the configured
// encryption key used when a schedule sets the encrypt flag.
func NewBackupRunner(source SnapshotSource, passphrase string, logger *zap.Logger) *BackupRunner {
	return &BackupRunner{
		source:     source,
		passphrase: passphrase,
		logger:     logger,
	}
}

// Run performs a single attempt for the schedule against the resolved
// provider. The returned record reflects the uploaded artifact. Pruning
// runs after a successful upload and its failures never fail the attempt.
func (r *BackupRunner) Run(ctx context.Context, schedule *domain.BackupSchedule, provider storage.Provider) (*storage.BackupRecord, error) {
	started := time.Now()

	payload, err := r.source.Export(ctx, schedule.IncludeImages)
	if err != nil {
		return nil, code.ErrorBackupSnapshot.WithDetails(err.Error())
	}

	data, err := r.transform(payload, schedule)
	if err != nil {
		return nil, code.ErrorBackupTransform.WithDetails(err.Error())
	}

	name := storage.EncodeBackupName(schedule.Name, started, schedule.Compress, schedule.Encrypt)
	if _, err := provider.Upload(name, data); err != nil {
		return nil, code.ErrorBackupUpload.WithDetails(err.Error())
	}

	record := &storage.BackupRecord{
		Provider:  provider.Name(),
		Filename:  name,
		SizeBytes: int64(len(data)),
		CreatedAt: started,
	}

	r.logger.Info("backup uploaded",
		zap.String(logger.FieldSchedule, schedule.Name),
		zap.String(logger.FieldProvider, provider.Name()),
		zap.String(logger.FieldFile, name),
		zap.Int64(logger.FieldSize, record.SizeBytes),
		zap.Duration(logger.FieldDuration, time.Since(started)))

	r.prune(schedule, provider)
	metrics.BackupDuration.Observe(time.Since(started).Seconds())

	return record, nil
}

func (r *BackupRunner) transform(payload []byte, schedule *domain.BackupSchedule) ([]byte, error) {
	data := payload

	if schedule.Compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		if err := zw.Close(); err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		data = buf.Bytes()
	}

	if schedule.Encrypt {
		if r.passphrase == "" {
			return nil, errors.New("encryption requested but no passphrase configured")
		}
		encrypted, err := util.EncryptPayload(data, r.passphrase)
		if err != nil {
			return nil, errors.Wrap(err, "encrypt")
		}
		data = encrypted
	}

	return data, nil
}

// prune deletes artifacts older than the retention window. Age is measured
// from the filename's encoded timestamp; artifacts aged exactly
// retentionDays are kept. Each deletion is attempted independently and
// failures are only logged.
func (r *BackupRunner) prune(schedule *domain.BackupSchedule, provider storage.Provider) {
	if schedule.RetentionDays <= 0 {
		return
	}

	records, err := provider.List()
	if err != nil {
		r.logger.Warn("retention prune: list failed",
			zap.String(logger.FieldProvider, provider.Name()), zap.Error(err))
		return
	}

	maxAge := time.Duration(schedule.RetentionDays) * 24 * time.Hour
	now := time.Now()

	for _, rec := range records {
		ts := rec.CreatedAt
		if _, parsed, ok := storage.ParseBackupName(rec.Filename); ok {
			ts = parsed
		}
		if now.Sub(ts) <= maxAge {
			continue
		}
		if err := provider.Delete(rec.Filename); err != nil {
			r.logger.Warn("retention prune: delete failed",
				zap.String(logger.FieldProvider, provider.Name()),
				zap.String(logger.FieldFile, rec.Filename),
				zap.Error(err))
			continue
		}
		metrics.PrunedArtifacts.Inc()
		r.logger.Info("retention prune: deleted old backup",
			zap.String(logger.FieldProvider, provider.Name()),
			zap.String(logger.FieldFile, rec.Filename))
	}
}
