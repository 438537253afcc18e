package storage

import (
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// WebDAVClient stores backup artifacts on a remote WebDAV share under BasePath.
type WebDAVClient struct {
	name   string
	client *gowebdav.Client
	config *Config
}

// NewWebDAVClient connects to the endpoint and ensures the base path exists.
func NewWebDAVClient(conf *Config) (*WebDAVClient, error) {
	if conf.BasePath == "" {
		conf.BasePath = "/"
	}

	c := gowebdav.NewClient(conf.URL, conf.User, conf.Password)
	if conf.TimeoutSeconds > 0 {
		c.SetTimeout(time.Duration(conf.TimeoutSeconds) * time.Second)
	}
	if err := c.Connect(); err != nil {
		return nil, errors.Wrap(err, "webdav connect")
	}
	if err := c.MkdirAll(conf.BasePath, 0644); err != nil {
		return nil, errors.Wrap(err, "webdav mkdir")
	}

	return &WebDAVClient{name: conf.Name, client: c, config: conf}, nil
}

func (p *WebDAVClient) Name() string {
	return p.name
}

func (p *WebDAVClient) Kind() Kind {
	return WebDAV
}

func (p *WebDAVClient) IsConnected() bool {
	_, err := p.client.ReadDir(p.config.BasePath)
	return err == nil
}

func (p *WebDAVClient) TestConnection() TestResult {
	start := time.Now()
	probe := path.Join(p.config.BasePath, ".probe")
	if err := p.client.Write(probe, []byte("ok"), os.ModePerm); err != nil {
		return TestResult{OK: false, Error: err.Error()}
	}
	_ = p.client.Remove(probe)
	return TestResult{OK: true, LatencyMs: time.Since(start).Milliseconds()}
}

func (p *WebDAVClient) GetStats() (Stats, error) {
	var stats Stats
	files, err := p.client.ReadDir(p.config.BasePath)
	if err != nil {
		return stats, errors.Wrap(err, "webdav")
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		stats.TotalFiles++
		stats.TotalSize += f.Size()
	}
	return stats, nil
}

// Upload writes to a temporary name and renames, so a partial transfer is
// never visible to List.
func (p *WebDAVClient) Upload(name string, data []byte) (string, error) {
	dst := path.Join(p.config.BasePath, name)
	tmp := dst + ".tmp"

	if err := p.client.Write(tmp, data, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav upload")
	}
	if err := p.client.Rename(tmp, dst, true); err != nil {
		_ = p.client.Remove(tmp)
		return "", errors.Wrap(err, "webdav rename")
	}
	return dst, nil
}

func (p *WebDAVClient) List() ([]BackupRecord, error) {
	files, err := p.client.ReadDir(p.config.BasePath)
	if err != nil {
		return nil, errors.Wrap(err, "webdav")
	}

	var records []BackupRecord
	for _, f := range files {
		if f.IsDir() || !IsBackupName(f.Name()) {
			continue
		}
		_, ts, ok := ParseBackupName(f.Name())
		if !ok {
			ts = f.ModTime()
		}
		records = append(records, BackupRecord{
			Provider:  p.name,
			Filename:  f.Name(),
			SizeBytes: f.Size(),
			CreatedAt: ts,
		})
	}
	return records, nil
}

func (p *WebDAVClient) Download(name string) ([]byte, error) {
	data, err := p.client.Read(path.Join(p.config.BasePath, name))
	if err != nil {
		return nil, errors.Wrap(err, "webdav")
	}
	return data, nil
}

func (p *WebDAVClient) Delete(name string) error {
	err := p.client.Remove(path.Join(p.config.BasePath, name))
	if err != nil && gowebdav.IsErrNotFound(err) {
		return nil
	}
	return err
}

var _ Provider = (*WebDAVClient)(nil)
