package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hometracker/home-backup-service/internal/dto"
	"github.com/hometracker/home-backup-service/pkg/code"
	"github.com/hometracker/home-backup-service/pkg/storage"
	"github.com/hometracker/home-backup-service/pkg/util"
)

func newTestRestoreService(source SnapshotSource, passphrase string, providers ...storage.Provider) RestoreService {
	registry := storage.NewRegistry()
	for _, p := range providers {
		_ = registry.Register(p)
	}
	return NewRestoreService(registry, source, passphrase, zap.NewNop())
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRestorePlainArtifact(t *testing.T) {
	provider := newMemProvider("local")
	name := storage.EncodeBackupName("nightly", time.Now(), false, false)
	provider.files[name] = []byte("snapshot payload")

	source := &fakeSnapshotSource{}
	s := newTestRestoreService(source, "", provider)

	err := s.Restore(context.Background(), &dto.RestoreRequest{Provider: "local", Filename: name})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !bytes.Equal(source.restored, []byte("snapshot payload")) {
		t.Error("restored payload differs")
	}
}

func TestRestoreCompressedEncryptedArtifact(t *testing.T) {
	provider := newMemProvider("local")
	plain := []byte("household tables and images")

	encrypted, err := util.EncryptPayload(gzipBytes(t, plain), "vault-key")
	if err != nil {
		t.Fatal(err)
	}
	name := storage.EncodeBackupName("nightly", time.Now(), true, true)
	provider.files[name] = encrypted

	source := &fakeSnapshotSource{}
	s := newTestRestoreService(source, "vault-key", provider)

	err = s.Restore(context.Background(), &dto.RestoreRequest{Provider: "local", Filename: name})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !bytes.Equal(source.restored, plain) {
		t.Error("round-trip payload differs")
	}
}

func TestRestoreRequestPassphraseWins(t *testing.T) {
	provider := newMemProvider("local")
	plain := []byte("payload")

	encrypted, err := util.EncryptPayload(plain, "request-key")
	if err != nil {
		t.Fatal(err)
	}
	name := storage.EncodeBackupName("nightly", time.Now(), false, true)
	provider.files[name] = encrypted

	source := &fakeSnapshotSource{}
	s := newTestRestoreService(source, "configured-key", provider)

	err = s.Restore(context.Background(), &dto.RestoreRequest{
		Provider:   "local",
		Filename:   name,
		Passphrase: "request-key",
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !bytes.Equal(source.restored, plain) {
		t.Error("restored payload differs")
	}
}

func TestRestoreWrongPassphrase(t *testing.T) {
	provider := newMemProvider("local")
	encrypted, err := util.EncryptPayload([]byte("payload"), "right")
	if err != nil {
		t.Fatal(err)
	}
	name := storage.EncodeBackupName("nightly", time.Now(), false, true)
	provider.files[name] = encrypted

	source := &fakeSnapshotSource{}
	s := newTestRestoreService(source, "wrong", provider)

	err = s.Restore(context.Background(), &dto.RestoreRequest{Provider: "local", Filename: name})
	assertCode(t, err, code.ErrorRestoreFailed)
	if source.restored != nil {
		t.Error("a failed decrypt must never reach the data set")
	}
}

func TestRestoreProviderNotFound(t *testing.T) {
	s := newTestRestoreService(&fakeSnapshotSource{}, "")

	err := s.Restore(context.Background(), &dto.RestoreRequest{
		Provider: "gone",
		Filename: "backup_n_20260101_000000.hbk",
	})
	assertCode(t, err, code.ErrorProviderNotFound)
}

func TestRestoreArtifactNotFound(t *testing.T) {
	provider := newMemProvider("local")
	s := newTestRestoreService(&fakeSnapshotSource{}, "", provider)

	err := s.Restore(context.Background(), &dto.RestoreRequest{
		Provider: "local",
		Filename: "backup_n_20260101_000000.hbk",
	})
	assertCode(t, err, code.ErrorBackupNotFound)
}

func TestRestoreSourceFailure(t *testing.T) {
	provider := newMemProvider("local")
	name := storage.EncodeBackupName("nightly", time.Now(), false, false)
	provider.files[name] = []byte("payload")

	source := &fakeSnapshotSource{restoreErr: errors.New("table swap failed")}
	s := newTestRestoreService(source, "", provider)

	err := s.Restore(context.Background(), &dto.RestoreRequest{Provider: "local", Filename: name})
	assertCode(t, err, code.ErrorRestoreFailed)
}

func TestDownloadReturnsArtifactAsIs(t *testing.T) {
	provider := newMemProvider("local")
	name := storage.EncodeBackupName("nightly", time.Now(), true, true)
	provider.files[name] = []byte{0x1f, 0x8b, 0xde, 0xad}

	s := newTestRestoreService(&fakeSnapshotSource{}, "", provider)

	data, err := s.Download(context.Background(), "local", name)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(data, []byte{0x1f, 0x8b, 0xde, 0xad}) {
		t.Error("download must not transform the artifact")
	}
}
