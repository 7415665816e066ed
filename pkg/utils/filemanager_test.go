package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveFileMoves(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "manifest.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	fm := NewFileManager(filepath.Join(dir, "processed"))
	archived, err := fm.ArchiveFile(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "processed", "manifest.xlsx"), archived)
	assert.True(t, FileExists(archived))
	assert.False(t, FileExists(src))
}

func TestArchiveFileTimestampSubdirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "manifest.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	fm := NewFileManager(filepath.Join(dir, "processed"))
	fm.UseTimestampSubdirs = true
	archived, err := fm.ArchiveFile(src)
	require.NoError(t, err)

	now := time.Now()
	assert.Contains(t, archived, filepath.Join("processed", now.Format("2006"), now.Format("01"), now.Format("02")))
	assert.True(t, FileExists(archived))
}

func TestArchiveFileDisabled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "manifest.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	fm := NewFileManager(filepath.Join(dir, "processed"))
	fm.ArchiveOnSuccess = false
	archived, err := fm.ArchiveFile(src)
	require.NoError(t, err)

	assert.Equal(t, src, archived)
	assert.True(t, FileExists(src))
}

func TestCleanOldArchives(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "payload_old.json")
	fresh := filepath.Join(dir, "payload_fresh.json")
	require.NoError(t, os.WriteFile(old, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("{}"), 0644))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	removed, err := CleanOldArchives(dir, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(old))
	assert.True(t, FileExists(fresh))
}

func TestCleanOldArchivesPatternsSpareOtherFiles(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "payload_9f8e.json")
	latest := filepath.Join(dir, "last_payload.json")
	require.NoError(t, os.WriteFile(archive, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(latest, []byte("{}"), 0644))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(archive, stale, stale))
	require.NoError(t, os.Chtimes(latest, stale, stale))

	removed, err := CleanOldArchives(dir, 24*time.Hour, "payload_*.json", "reply_*.json")
	require.NoError(t, err)

	// Only the uuid-named copy ages out; the latest-run file stays even
	// when old.
	assert.Equal(t, 1, removed)
	assert.False(t, FileExists(archive))
	assert.True(t, FileExists(latest))
}

func TestWriteBatchSummary(t *testing.T) {
	dir := t.TempDir()
	started := time.Now().Add(-time.Minute)

	summary := BatchSummary{
		StartTime:       started,
		EndTime:         time.Now(),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		ProcessedFiles: []ProcessedFileInfo{
			{InputFile: "a.pdf", OutputFile: "a.txt", ProcessTime: time.Second},
		},
		FailedFilesList: []FailedFileInfo{
			{InputFile: "b.pdf", ErrorMessage: "failed to open PDF"},
		},
	}

	path, err := WriteBatchSummary(summary, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Total Files: 2")
	assert.Contains(t, text, "Successful:  1")
	assert.Contains(t, text, "a.pdf")
	assert.Contains(t, text, "b.pdf")
	assert.Contains(t, text, "failed to open PDF")
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, FileExists(filepath.Join(dir, "nope")))

	path := filepath.Join(dir, "yes")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
}
