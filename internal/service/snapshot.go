package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hometracker/home-backup-service/pkg/fileurl"
)

const snapshotVersion = 1

// SnapshotSource produces and restores a full serializable snapshot of the
// household data set.
type SnapshotSource interface {
	// Export serializes the configured tables, plus the images directory
	// when includeImages is set, into a single payload.
	Export(ctx context.Context, includeImages bool) ([]byte, error)

	// Restore replaces the current data set with the payload's contents.
	// Either the full replace succeeds or the prior state is untouched.
	Restore(ctx context.Context, payload []byte) error
}

type snapshotPayload struct {
	Version   int                                 `json:"version"`
	CreatedAt time.Time                           `json:"createdAt"`
	Tables    map[string][]map[string]interface{} `json:"tables"`
	Images    map[string]string                   `json:"images,omitempty"`
}

type dataSnapshot struct {
	db        *gorm.DB
	tables    []string
	imagesDir string
	logger    *zap.Logger
}

// NewDataSnapshot creates a SnapshotSource over the household tables and
// the images directory.
func NewDataSnapshot(db *gorm.DB, tables []string, imagesDir string, logger *zap.Logger) SnapshotSource {
	return &dataSnapshot{
		db:        db,
		tables:    tables,
		imagesDir: imagesDir,
		logger:    logger,
	}
}

func (s *dataSnapshot) Export(ctx context.Context, includeImages bool) ([]byte, error) {
	payload := snapshotPayload{
		Version:   snapshotVersion,
		CreatedAt: time.Now(),
		Tables:    make(map[string][]map[string]interface{}),
	}

	for _, table := range s.tables {
		var rows []map[string]interface{}
		if err := s.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
			return nil, errors.Wrapf(err, "export table %s", table)
		}
		payload.Tables[table] = rows
	}

	if includeImages && fileurl.IsDir(s.imagesDir) {
		payload.Images = make(map[string]string)
		err := filepath.WalkDir(s.imagesDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(s.imagesDir, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			payload.Images[filepath.ToSlash(rel)] = base64.StdEncoding.EncodeToString(data)
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "export images")
		}
	}

	return json.Marshal(payload)
}

func (s *dataSnapshot) Restore(ctx context.Context, data []byte) error {
	var payload snapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	if payload.Version != snapshotVersion {
		return errors.Errorf("unsupported snapshot version %d", payload.Version)
	}

	// Images are swapped in by rename before the table transaction so the
	// whole restore stays reversible: a failed transaction swaps them back.
	var preDir string
	if payload.Images != nil {
		tmpDir, err := s.extractImages(payload.Images)
		if err != nil {
			return errors.Wrap(err, "extract images")
		}

		preDir = s.imagesDir + ".pre-restore"
		_ = os.RemoveAll(preDir)
		if fileurl.IsDir(s.imagesDir) {
			if err := os.Rename(s.imagesDir, preDir); err != nil {
				_ = os.RemoveAll(tmpDir)
				return errors.Wrap(err, "stash images")
			}
		} else {
			preDir = ""
		}
		if err := os.Rename(tmpDir, s.imagesDir); err != nil {
			if preDir != "" {
				_ = os.Rename(preDir, s.imagesDir)
			}
			_ = os.RemoveAll(tmpDir)
			return errors.Wrap(err, "swap images")
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for table, rows := range payload.Tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return errors.Wrapf(err, "clear table %s", table)
			}
			for _, row := range rows {
				if err := tx.Table(table).Create(row).Error; err != nil {
					return errors.Wrapf(err, "insert into %s", table)
				}
			}
		}
		return nil
	})
	if err != nil {
		if payload.Images != nil {
			_ = os.RemoveAll(s.imagesDir)
			if preDir != "" {
				if rerr := os.Rename(preDir, s.imagesDir); rerr != nil {
					s.logger.Error("failed to roll back images directory",
						zap.String("dir", preDir), zap.Error(rerr))
				}
			}
		}
		return err
	}

	if preDir != "" {
		_ = os.RemoveAll(preDir)
	}
	return nil
}

func (s *dataSnapshot) extractImages(images map[string]string) (string, error) {
	tmpDir, err := os.MkdirTemp(filepath.Dir(s.imagesDir), ".restore_images_")
	if err != nil {
		return "", err
	}
	for rel, encoded := range images {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", errors.Wrapf(err, "image %s", rel)
		}
		dst := filepath.Join(tmpDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
	}
	return tmpDir, nil
}
