package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/models"
)

func TestStore_SeedFallbackWhenEmpty(t *testing.T) {
	st, err := New(NewMemoryKV())
	require.NoError(t, err)

	var users int
	require.NoError(t, st.View(func(data *models.Snapshot) error {
		users = len(data.Users)
		return nil
	}))
	require.NotZero(t, users, "seed dataset should provide users")
}

func TestStore_SeedFallbackOnCorruptBlob(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(SnapshotKey, []byte("{not json")))

	st, err := New(kv)
	require.NoError(t, err)

	require.NoError(t, st.View(func(data *models.Snapshot) error {
		require.NotEmpty(t, data.Users)
		return nil
	}))
}

func TestStore_RoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	st, err := New(kv)
	require.NoError(t, err)

	note := models.Note{
		ID:        "n1",
		Title:     "Fix parser",
		Content:   "The tag parser drops empty segments",
		ProjectID: "p1",
		AuthorID:  "u1",
		Type:      models.NoteBug,
		Priority:  models.PriorityHigh,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.Update(func(data *models.Snapshot) error {
		data.Notes = append(data.Notes, note)
		return nil
	}))

	var before *models.Snapshot
	require.NoError(t, st.View(func(data *models.Snapshot) error {
		before = data.Clone()
		return nil
	}))

	reloaded, err := New(kv)
	require.NoError(t, err)
	require.NoError(t, reloaded.View(func(data *models.Snapshot) error {
		require.Equal(t, before, data.Clone())
		return nil
	}))
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	kv := NewMemoryKV()
	st, err := New(kv)
	require.NoError(t, err)

	boom := json.Unmarshal([]byte("x"), &struct{}{})
	require.Error(t, boom)

	err = st.Update(func(data *models.Snapshot) error {
		data.Users = nil
		return boom
	})
	require.Error(t, err)

	require.NoError(t, st.View(func(data *models.Snapshot) error {
		require.NotEmpty(t, data.Users, "failed update must not mutate the snapshot")
		return nil
	}))
}

func TestStore_CustomKeyIsolation(t *testing.T) {
	kv := NewMemoryKV()

	first, err := New(kv, WithKey("first"))
	require.NoError(t, err)
	second, err := New(kv, WithKey("second"))
	require.NoError(t, err)

	require.NoError(t, first.Update(func(data *models.Snapshot) error {
		data.Users = nil
		return nil
	}))

	require.NoError(t, second.View(func(data *models.Snapshot) error {
		require.NotEmpty(t, data.Users)
		return nil
	}))
}

func TestMemoryKV_AbsentVsEmpty(t *testing.T) {
	kv := NewMemoryKV()

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set("empty", nil))
	_, ok, err = kv.Get("empty")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, kv.Delete("missing"), "deleting an absent key is not an error")
}
