package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Badsnus/qrbatch/internal/domain/common/errorz"
)

func TestPresetStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "presets")
	storage := NewPresetStorage(dir)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "event", map[string]any{"mode": "tabular", "border": 2}))

	_, err := os.Stat(filepath.Join(dir, "event.json"))
	require.NoError(t, err)

	values, err := storage.Load(ctx, "event")
	require.NoError(t, err)
	assert.Equal(t, "tabular", values["mode"])
	// JSON numbers decode as float64
	assert.Equal(t, float64(2), values["border"])
}

func TestPresetStorageMissing(t *testing.T) {
	storage := NewPresetStorage(filepath.Join(t.TempDir(), "presets"))
	ctx := context.Background()

	_, err := storage.Load(ctx, "nope")
	assert.ErrorIs(t, err, errorz.ErrPresetNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, "nope"), errorz.ErrPresetNotFound)

	names, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPresetStorageListAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage := NewPresetStorage(dir)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "b", map[string]any{}))
	require.NoError(t, storage.Save(ctx, "a", map[string]any{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, storage.Delete(ctx, "a"))
	names, err = storage.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestPresetStorageCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := NewPresetStorage(dir).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errorz.ErrPresetNotFound)
}
