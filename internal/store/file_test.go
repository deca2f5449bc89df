package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileKV_SetGetDelete(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	_, ok, err := kv.Get("user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set("user", []byte(`{"id":"u1"}`)))

	raw, ok, err := kv.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":"u1"}`, string(raw))

	require.NoError(t, kv.Delete("user"))
	_, ok, err = kv.Get("user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Delete("user"), "double delete is a no-op")
}

func TestFileKV_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set("snapshot", []byte("one")))
	require.NoError(t, kv.Set("snapshot", []byte("two")))

	raw, ok, err := kv.Get("snapshot")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "writes must swap in place, not accumulate temp files")
	require.Equal(t, "snapshot.json", entries[0].Name())
}

func TestFileKV_SurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()

	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set("user", []byte("persisted")))

	reopened, err := NewFileKV(dir)
	require.NoError(t, err)
	raw, ok, err := reopened.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", string(raw))
}

func TestNewFileKV_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileKV(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
