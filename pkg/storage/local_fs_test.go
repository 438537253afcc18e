package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalFS(t *testing.T) *LocalFS {
	t.Helper()
	p, err := NewLocalFS(&Config{
		Name:     LocalName,
		Kind:     Local,
		SavePath: t.TempDir(),
	})
	require.NoError(t, err)
	return p
}

func TestLocalFSUploadDownloadRoundTrip(t *testing.T) {
	p := newTestLocalFS(t)
	name := EncodeBackupName("nightly", time.Now(), false, false)

	_, err := p.Upload(name, []byte("payload"))
	require.NoError(t, err)

	data, err := p.Download(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestLocalFSUploadOverwrites(t *testing.T) {
	p := newTestLocalFS(t)
	name := EncodeBackupName("nightly", time.Now(), false, false)

	_, err := p.Upload(name, []byte("first"))
	require.NoError(t, err)
	_, err = p.Upload(name, []byte("second"))
	require.NoError(t, err)

	data, err := p.Download(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	records, err := p.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLocalFSListSkipsForeignFiles(t *testing.T) {
	p := newTestLocalFS(t)
	ts := time.Date(2026, 8, 30, 2, 0, 0, 0, time.Local)
	name := EncodeBackupName("nightly", ts, true, false)

	_, err := p.Upload(name, []byte("payload"))
	require.NoError(t, err)

	// files the service did not produce must be invisible
	require.NoError(t, os.WriteFile(filepath.Join(p.config.SavePath, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(p.config.SavePath, ".DS_Store"), []byte("x"), 0644))

	records, err := p.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, name, records[0].Filename)
	assert.True(t, records[0].CreatedAt.Equal(ts))
	assert.Equal(t, LocalName, records[0].Provider)
}

func TestLocalFSDeleteMissingIsNoError(t *testing.T) {
	p := newTestLocalFS(t)
	assert.NoError(t, p.Delete("backup_gone_20260101_000000.hbk"))
}

func TestLocalFSDelete(t *testing.T) {
	p := newTestLocalFS(t)
	name := EncodeBackupName("nightly", time.Now(), false, false)

	_, err := p.Upload(name, []byte("payload"))
	require.NoError(t, err)

	require.NoError(t, p.Delete(name))
	records, err := p.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLocalFSTestConnection(t *testing.T) {
	p := newTestLocalFS(t)
	result := p.TestConnection()
	assert.True(t, result.OK)
	assert.Empty(t, result.Error)

	assert.True(t, p.IsConnected())
}

func TestLocalFSGetStats(t *testing.T) {
	p := newTestLocalFS(t)
	_, err := p.Upload(EncodeBackupName("a", time.Now(), false, false), []byte("12345"))
	require.NoError(t, err)
	_, err = p.Upload(EncodeBackupName("b", time.Now(), false, false), []byte("123"))
	require.NoError(t, err)

	stats, err := p.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Equal(t, int64(8), stats.TotalSize)
}
