package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/hometracker/home-backup-service/pkg/fileurl"
)

// LocalFS stores backup artifacts on the local filesystem under SavePath.
type LocalFS struct {
	name   string
	config *Config
}

// NewLocalFS creates the local provider and ensures its directory exists.
func NewLocalFS(conf *Config) (*LocalFS, error) {
	if conf.SavePath == "" {
		conf.SavePath = "storage/backups"
	}
	if err := os.MkdirAll(conf.SavePath, 0755); err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	name := conf.Name
	if name == "" {
		name = LocalName
	}
	return &LocalFS{name: name, config: conf}, nil
}

func (p *LocalFS) Name() string {
	return p.name
}

func (p *LocalFS) Kind() Kind {
	return Local
}

func (p *LocalFS) IsConnected() bool {
	return fileurl.IsDir(p.config.SavePath)
}

func (p *LocalFS) TestConnection() TestResult {
	start := time.Now()
	probe := filepath.Join(p.config.SavePath, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return TestResult{OK: false, Error: err.Error()}
	}
	_ = os.Remove(probe)
	return TestResult{OK: true, LatencyMs: time.Since(start).Milliseconds()}
}

func (p *LocalFS) GetStats() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(p.config.SavePath)
	if err != nil {
		return stats, errors.Wrap(err, "local_fs")
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.TotalFiles++
		stats.TotalSize += info.Size()
	}
	return stats, nil
}

// Upload writes to a temporary name and renames, so a partial write is never
// visible to List.
func (p *LocalFS) Upload(name string, data []byte) (string, error) {
	dst := filepath.Join(p.config.SavePath, name)
	tmp := dst + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", errors.Wrap(err, "local_fs")
	}
	return dst, nil
}

func (p *LocalFS) List() ([]BackupRecord, error) {
	entries, err := os.ReadDir(p.config.SavePath)
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}

	var records []BackupRecord
	for _, e := range entries {
		if e.IsDir() || !IsBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		_, ts, ok := ParseBackupName(e.Name())
		if !ok {
			ts = info.ModTime()
		}
		records = append(records, BackupRecord{
			Provider:  p.name,
			Filename:  e.Name(),
			SizeBytes: info.Size(),
			CreatedAt: ts,
		})
	}
	return records, nil
}

func (p *LocalFS) Download(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.config.SavePath, name))
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return data, nil
}

func (p *LocalFS) Delete(name string) error {
	dst := filepath.Join(p.config.SavePath, name)
	if !fileurl.IsExist(dst) {
		return nil
	}
	return os.Remove(dst)
}

var _ Provider = (*LocalFS)(nil)
