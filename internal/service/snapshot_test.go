package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func newSnapshotImagesDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "images")
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func snapshotItemNames(t *testing.T, db *gorm.DB) []string {
	t.Helper()
	var names []string
	if err := db.Table("items").Order("id").Pluck("name", &names).Error; err != nil {
		t.Fatalf("read items: %v", err)
	}
	return names
}

func marshalSnapshot(t *testing.T, payload snapshotPayload) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestSnapshotExportRestoreRoundtrip(t *testing.T) {
	db := newSnapshotDB(t)
	imagesDir := newSnapshotImagesDir(t, map[string]string{
		"couch.jpg":        "couch-bytes",
		"rooms/fridge.jpg": "fridge-bytes",
	})
	s := NewDataSnapshot(db, []string{"items"}, imagesDir, zap.NewNop())

	if err := db.Exec("INSERT INTO items (id, name) VALUES (1, 'couch'), (2, 'fridge')").Error; err != nil {
		t.Fatal(err)
	}

	data, err := s.Export(context.Background(), true)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// wreck the current state, then bring the snapshot back
	if err := db.Exec("DELETE FROM items").Error; err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(imagesDir); err != nil {
		t.Fatal(err)
	}

	if err := s.Restore(context.Background(), data); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	names := snapshotItemNames(t, db)
	if len(names) != 2 || names[0] != "couch" || names[1] != "fridge" {
		t.Errorf("items after restore = %v", names)
	}
	got, err := os.ReadFile(filepath.Join(imagesDir, "rooms", "fridge.jpg"))
	if err != nil || string(got) != "fridge-bytes" {
		t.Errorf("restored image = %q, %v", got, err)
	}
}

func TestRestoreRollsBackOnBadRow(t *testing.T) {
	db := newSnapshotDB(t)
	imagesDir := newSnapshotImagesDir(t, map[string]string{"keep.jpg": "keep-bytes"})
	s := NewDataSnapshot(db, []string{"items"}, imagesDir, zap.NewNop())

	if err := db.Exec("INSERT INTO items (id, name) VALUES (1, 'keep')").Error; err != nil {
		t.Fatal(err)
	}

	// the second row violates the NOT NULL constraint mid-transaction
	data := marshalSnapshot(t, snapshotPayload{
		Version:   snapshotVersion,
		CreatedAt: time.Now(),
		Tables: map[string][]map[string]interface{}{
			"items": {
				{"id": 10, "name": "incoming"},
				{"id": 11, "name": nil},
			},
		},
		Images: map[string]string{
			"keep.jpg": base64.StdEncoding.EncodeToString([]byte("incoming-bytes")),
		},
	})

	if err := s.Restore(context.Background(), data); err == nil {
		t.Fatal("restore of a constraint-violating snapshot must fail")
	}

	names := snapshotItemNames(t, db)
	if len(names) != 1 || names[0] != "keep" {
		t.Errorf("items after failed restore = %v, want the prior row", names)
	}

	got, err := os.ReadFile(filepath.Join(imagesDir, "keep.jpg"))
	if err != nil || string(got) != "keep-bytes" {
		t.Errorf("image after failed restore = %q, %v, want the prior bytes", got, err)
	}
	if _, err := os.Stat(imagesDir + ".pre-restore"); !os.IsNotExist(err) {
		t.Error("stashed images directory must be swapped back, not left behind")
	}
}

func TestRestoreBadImageLeavesStateUntouched(t *testing.T) {
	db := newSnapshotDB(t)
	imagesDir := newSnapshotImagesDir(t, map[string]string{"keep.jpg": "keep-bytes"})
	s := NewDataSnapshot(db, []string{"items"}, imagesDir, zap.NewNop())

	if err := db.Exec("INSERT INTO items (id, name) VALUES (1, 'keep')").Error; err != nil {
		t.Fatal(err)
	}

	data := marshalSnapshot(t, snapshotPayload{
		Version:   snapshotVersion,
		CreatedAt: time.Now(),
		Tables: map[string][]map[string]interface{}{
			"items": {{"id": 10, "name": "incoming"}},
		},
		Images: map[string]string{"bad.jpg": "%%% not base64 %%%"},
	})

	if err := s.Restore(context.Background(), data); err == nil {
		t.Fatal("restore with an undecodable image must fail")
	}

	names := snapshotItemNames(t, db)
	if len(names) != 1 || names[0] != "keep" {
		t.Errorf("items after failed restore = %v", names)
	}
	got, err := os.ReadFile(filepath.Join(imagesDir, "keep.jpg"))
	if err != nil || string(got) != "keep-bytes" {
		t.Errorf("image after failed restore = %q, %v", got, err)
	}
}

func TestRestoreRejectsUnsupportedVersion(t *testing.T) {
	db := newSnapshotDB(t)
	s := NewDataSnapshot(db, []string{"items"}, filepath.Join(t.TempDir(), "images"), zap.NewNop())

	data := marshalSnapshot(t, snapshotPayload{Version: 99, CreatedAt: time.Now()})
	if err := s.Restore(context.Background(), data); err == nil {
		t.Fatal("restore of an unknown snapshot version must fail")
	}
}
