package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/domain"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/util"
)

// --- Shared fakes ---

// memProvider is an in-memory storage.Provider for service tests.
type memProvider struct {
	mu          sync.Mutex
	name        string
	files       map[string][]byte
	uploads     int
	failUpload  bool
	failList    bool
	failDeletes map[string]bool
}

func newMemProvider(name string) *memProvider {
	return &memProvider{
		name:        name,
		files:       make(map[string][]byte),
		failDeletes: make(map[string]bool),
	}
}

func (p *memProvider) Name() string       { return p.name }
func (p *memProvider) Kind() storage.Kind { return storage.Local }
func (p *memProvider) IsConnected() bool  { return true }

func (p *memProvider) TestConnection() storage.TestResult {
	return storage.TestResult{OK: true}
}

func (p *memProvider) GetStats() (storage.Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stats := storage.Stats{}
	for _, data := range p.files {
		stats.TotalFiles++
		stats.TotalSize += int64(len(data))
	}
	return stats, nil
}

func (p *memProvider) Upload(name string, data []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failUpload {
		return "", errors.New("upload refused")
	}
	p.uploads++
	p.files[name] = append([]byte(nil), data...)
	return name, nil
}

func (p *memProvider) List() ([]storage.BackupRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failList {
		return nil, errors.New("list refused")
	}
	var records []storage.BackupRecord
	for name, data := range p.files {
		ts := time.Now()
		if _, parsed, ok := storage.ParseBackupName(name); ok {
			ts = parsed
		}
		records = append(records, storage.BackupRecord{
			Provider:  p.name,
			Filename:  name,
			SizeBytes: int64(len(data)),
			CreatedAt: ts,
		})
	}
	return records, nil
}

func (p *memProvider) Download(name string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.files[name]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (p *memProvider) Delete(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDeletes[name] {
		return errors.New("delete refused")
	}
	delete(p.files, name)
	return nil
}

func (p *memProvider) uploadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploads
}

func (p *memProvider) fileNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for name := range p.files {
		names = append(names, name)
	}
	return names
}

// fakeSnapshotSource serves canned payloads.
type fakeSnapshotSource struct {
	payload    []byte
	exportErr  error
	restoreErr error
	restored   []byte
}

func (f *fakeSnapshotSource) Export(ctx context.Context, includeImages bool) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.payload, nil
}

func (f *fakeSnapshotSource) Restore(ctx context.Context, payload []byte) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = append([]byte(nil), payload...)
	return nil
}

func assertCode(t *testing.T, err error, want *code.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	c, ok := err.(*code.Code)
	if !ok {
		t.Fatalf("expected *code.Code, got %T: %v", err, err)
	}
	if c.Code() != want.Code() {
		t.Fatalf("expected code %d, got %d (%v)", want.Code(), c.Code(), err)
	}
}

// --- Tests ---

func TestRunnerUploadsPlainArtifact(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("snapshot")}
	provider := newMemProvider("local")
	runner := NewBackupRunner(source, "", zap.NewNop())

	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly"}
	record, err := runner.Run(context.Background(), schedule, provider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if record.Provider != "local" {
		t.Errorf("provider = %q", record.Provider)
	}
	if !storage.IsBackupName(record.Filename) {
		t.Errorf("filename %q does not match the naming scheme", record.Filename)
	}
	if record.SizeBytes != int64(len("snapshot")) {
		t.Errorf("size = %d", record.SizeBytes)
	}

	stored, err := provider.Download(record.Filename)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(stored, []byte("snapshot")) {
		t.Error("stored artifact differs from the snapshot payload")
	}
}

func TestRunnerCompressAndEncrypt(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("household data, compressible compressible")}
	provider := newMemProvider("local")
	runner := NewBackupRunner(source, "vault-passphrase", zap.NewNop())

	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly", Compress: true, Encrypt: true}
	record, err := runner.Run(context.Background(), schedule, provider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !storage.IsCompressedName(record.Filename) || !storage.IsEncryptedName(record.Filename) {
		t.Fatalf("filename %q missing transform suffixes", record.Filename)
	}

	stored, err := provider.Download(record.Filename)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	decrypted, err := util.DecryptPayload(stored, "vault-passphrase")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(decrypted))
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip read: %v", err)
	}
	if !bytes.Equal(plain, source.payload) {
		t.Error("round-trip payload differs")
	}
}

func TestRunnerEncryptWithoutPassphrase(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("data")}
	provider := newMemProvider("local")
	runner := NewBackupRunner(source, "", zap.NewNop())

	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly", Encrypt: true}
	_, err := runner.Run(context.Background(), schedule, provider)
	assertCode(t, err, code.ErrorBackupTransform)

	if provider.uploadCount() != 0 {
		t.Error("nothing must be uploaded when the transform fails")
	}
}

func TestRunnerSnapshotFailure(t *testing.T) {
	source := &fakeSnapshotSource{exportErr: errors.New("db locked")}
	provider := newMemProvider("local")
	runner := NewBackupRunner(source, "", zap.NewNop())

	_, err := runner.Run(context.Background(), &domain.BackupSchedule{ID: 1, Name: "n"}, provider)
	assertCode(t, err, code.ErrorBackupSnapshot)
}

func TestRunnerUploadFailure(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("data")}
	provider := newMemProvider("local")
	provider.failUpload = true
	runner := NewBackupRunner(source, "", zap.NewNop())

	_, err := runner.Run(context.Background(), &domain.BackupSchedule{ID: 1, Name: "n"}, provider)
	assertCode(t, err, code.ErrorBackupUpload)
}

func TestRunnerPruneKeepsBoundaryAge(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("data")}
	provider := newMemProvider("local")

	now := time.Now()
	fresh := storage.EncodeBackupName("nightly", now.Add(-time.Hour), false, false)
	boundary := storage.EncodeBackupName("nightly", now.Add(-24*time.Hour+time.Minute), false, false)
	stale := storage.EncodeBackupName("nightly", now.Add(-2*24*time.Hour), false, false)
	ancient := storage.EncodeBackupName("nightly", now.Add(-5*24*time.Hour), false, false)
	for _, name := range []string{fresh, boundary, stale, ancient} {
		provider.files[name] = []byte("old")
	}

	runner := NewBackupRunner(source, "", zap.NewNop())
	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly", RetentionDays: 1}

	record, err := runner.Run(context.Background(), schedule, provider)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	kept := map[string]bool{}
	for _, name := range provider.fileNames() {
		kept[name] = true
	}

	for _, name := range []string{record.Filename, fresh, boundary} {
		if !kept[name] {
			t.Errorf("artifact %q within retention was pruned", name)
		}
	}
	for _, name := range []string{stale, ancient} {
		if kept[name] {
			t.Errorf("artifact %q past retention was kept", name)
		}
	}
}

func TestRunnerPruneFailuresDoNotFailRun(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("data")}
	provider := newMemProvider("local")

	stale := storage.EncodeBackupName("nightly", time.Now().Add(-3*24*time.Hour), false, false)
	provider.files[stale] = []byte("old")
	provider.failDeletes[stale] = true

	runner := NewBackupRunner(source, "", zap.NewNop())
	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly", RetentionDays: 1}

	if _, err := runner.Run(context.Background(), schedule, provider); err != nil {
		t.Fatalf("prune failure must not fail the run: %v", err)
	}
}

func TestRunnerRetentionDisabled(t *testing.T) {
	source := &fakeSnapshotSource{payload: []byte("data")}
	provider := newMemProvider("local")

	ancient := storage.EncodeBackupName("nightly", time.Now().Add(-30*24*time.Hour), false, false)
	provider.files[ancient] = []byte("old")

	runner := NewBackupRunner(source, "", zap.NewNop())
	schedule := &domain.BackupSchedule{ID: 1, Name: "nightly", RetentionDays: 0}

	if _, err := runner.Run(context.Background(), schedule, provider); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range provider.fileNames() {
		if name == ancient {
			return
		}
	}
	t.Error("retention 0 must never prune")
}
