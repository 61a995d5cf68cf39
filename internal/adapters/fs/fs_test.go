package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/mk/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestTimestamp(t *testing.T) {
	f := fs.New()
	dir := t.TempDir()

	missing := f.Timestamp(filepath.Join(dir, "missing"))
	assert.True(t, missing.IsUndefined())

	path := filepath.Join(dir, "present")
	writeFile(t, path, "x")
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	ts := f.Timestamp(path)
	assert.False(t, ts.IsUndefined())
	assert.Equal(t, mtime.Format(time.RFC3339Nano), ts.String())
}

func TestExists(t *testing.T) {
	f := fs.New()
	dir := t.TempDir()

	assert.False(t, f.Exists(filepath.Join(dir, "missing")))

	path := filepath.Join(dir, "present")
	writeFile(t, path, "x")
	assert.True(t, f.Exists(path))
	assert.True(t, f.Exists(dir), "directories exist too")
}

func TestStashRestoreAfterFailure(t *testing.T) {
	f := fs.New()
	dir := t.TempDir()
	target := filepath.Join(dir, "out")
	writeFile(t, target, "prior bytes")

	stash, err := f.Stash(target)
	require.NoError(t, err)

	// The failed recipe left partial output behind.
	writeFile(t, target, "partial garbage")
	require.NoError(t, stash.Restore())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "prior bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no stash file left behind")
}

func TestStashRestoreWithoutPrior(t *testing.T) {
	f := fs.New()
	dir := t.TempDir()
	target := filepath.Join(dir, "out")

	stash, err := f.Stash(target)
	require.NoError(t, err)

	writeFile(t, target, "partial garbage")
	require.NoError(t, stash.Restore())
	assert.NoFileExists(t, target)

	// Restoring when the recipe produced nothing must also succeed.
	stash, err = f.Stash(target)
	require.NoError(t, err)
	require.NoError(t, stash.Restore())
}

func TestStashDiscardKeepsFreshOutput(t *testing.T) {
	f := fs.New()
	dir := t.TempDir()
	target := filepath.Join(dir, "out")
	writeFile(t, target, "prior bytes")

	stash, err := f.Stash(target)
	require.NoError(t, err)

	writeFile(t, target, "fresh bytes")
	require.NoError(t, stash.Discard())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "fresh bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "stash file removed on discard")
}
