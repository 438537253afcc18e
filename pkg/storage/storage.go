// Package storage defines the pluggable backup storage backend contract and
// the dispatch from a unified configuration to a concrete provider.
package storage

import (
	"time"
)

type Kind = string

const Local Kind = "local"
const WebDAV Kind = "webdav"

var KindMap = map[Kind]bool{
	Local:  true,
	WebDAV: true,
}

// Config is the unified provider configuration. Which fields matter depends
// on Kind.
type Config struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`

	// WebDAV
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	BasePath string `yaml:"base-path"`
	// TimeoutSeconds bounds a single remote I/O call.
	TimeoutSeconds int `yaml:"timeout-seconds"`

	// Local FS
	SavePath string `yaml:"save-path"`
}

// Stats is an aggregate over everything a provider currently stores.
type Stats struct {
	TotalFiles int64 `json:"totalFiles"`
	TotalSize  int64 `json:"totalSize"`
}

// TestResult is the outcome of an explicit round-trip probe.
type TestResult struct {
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// BackupRecord describes one stored backup artifact. Records are a
// reflection of the provider's listing, never a separately maintained ledger.
type BackupRecord struct {
	Provider  string    `json:"provider"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Provider is the storage backend contract. Upload overwrites an existing
// name; Delete of a missing name is not an error. Implementations must make
// Upload atomic from List's point of view, writing to a temporary name and
// renaming when the backend itself gives no such guarantee.
type Provider interface {
	Name() string
	Kind() Kind
	// IsConnected is a cheap reachability check.
	IsConnected() bool
	// TestConnection performs an explicit round-trip probe.
	TestConnection() TestResult
	GetStats() (Stats, error)
	Upload(name string, data []byte) (string, error)
	List() ([]BackupRecord, error)
	Download(name string) ([]byte, error)
	Delete(name string) error
}
