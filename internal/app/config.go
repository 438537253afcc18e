// Package app provides the application container wrapping configuration,
// dependencies and services.
package app

import (
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hometracker/home-backup-service/internal/dao"
	"github.com/hometracker/home-backup-service/pkg/workerpool"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	File     string       `yaml:"-"`
	Server   ServerConfig `yaml:"server"`
	Log      LogConfig    `yaml:"log"`
	Database dao.Database `yaml:"database"`
	App      AppSettings  `yaml:"app"`
	Backup   BackupConfig `yaml:"backup"`
	AI       AIConfig     `yaml:"ai"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// RunMode is the gin run mode.
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort is the public HTTP listen address.
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout in seconds.
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout in seconds.
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen serves expvar and prometheus metrics.
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	// Level per zapcore.ParseLevel.
	Level string `yaml:"level" default:"info"`
	// File is the log file path.
	File string `yaml:"file" default:"storage/logs/backup-service.log"`
	// Production enables JSON output with file rotation.
	Production bool `yaml:"production" default:"true"`
	// MaxSize in megabytes before rotation.
	MaxSize int `yaml:"max-size" default:"64"`
	// MaxBackups kept after rotation.
	MaxBackups int `yaml:"max-backups" default:"7"`
	// MaxAge in days.
	MaxAge int `yaml:"max-age" default:"30"`
}

// AppSettings holds general application settings.
type AppSettings struct {
	// DefaultContextTimeout bounds request handling, in seconds.
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// UploadSavePath is the root of client-uploaded images.
	UploadSavePath string `yaml:"upload-save-path" default:"storage/uploads"`
}

// BackupConfig holds the backup subsystem settings.
type BackupConfig struct {
	// LocalSavePath is the built-in local provider's directory.
	LocalSavePath string `yaml:"local-save-path" default:"storage/backups"`
	// ImagesPath is the images directory included in snapshots.
	ImagesPath string `yaml:"images-path" default:"storage/uploads/images"`
	// Tables are the household tables captured in snapshots.
	Tables []string `yaml:"tables" default:"[\"items\",\"rooms\",\"maintenance_records\",\"budget_entries\",\"documents\"]"`
	// EncryptKey is the passphrase applied when a schedule sets encrypt.
	// Key management beyond this pass-through is out of scope.
	EncryptKey string `yaml:"encrypt-key"`
}

// AIConfig holds the analysis queue settings.
type AIConfig struct {
	// MaxConcurrentJobs bounds how many jobs process at once.
	MaxConcurrentJobs int `yaml:"max-concurrent-jobs" default:"2"`
	// QueueSize is the pending-job buffer.
	QueueSize int `yaml:"queue-size" default:"32"`
}

// LoadConfig loads the configuration file, applying defaults before and
// after parsing so empty YAML fields still pick up their defaults.
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save writes the configuration back to its file.
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetWorkerPoolConfig builds the analysis pool configuration.
func (c *AppConfig) GetWorkerPoolConfig() *workerpool.Config {
	cfg := workerpool.DefaultConfig()
	if c.AI.MaxConcurrentJobs > 0 {
		cfg.MaxWorkers = c.AI.MaxConcurrentJobs
	}
	if c.AI.QueueSize > 0 {
		cfg.QueueSize = c.AI.QueueSize
	}
	return &cfg
}
