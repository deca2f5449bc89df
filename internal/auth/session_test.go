package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

func newTestSessions(t *testing.T) (*SessionManager, *store.MemoryKV, *store.MemoryKV) {
	t.Helper()

	durable := store.NewMemoryKV()
	ephemeral := store.NewMemoryKV()
	m, err := NewSessionManager(durable, ephemeral)
	require.NoError(t, err)
	return m, durable, ephemeral
}

func TestSessionManager_PersistStripsPassword(t *testing.T) {
	m, durable, _ := newTestSessions(t)

	user := models.User{ID: "u1", Name: "Ana", Email: "ana@test.com", Password: "hashed:secret"}
	require.NoError(t, m.Persist(user, true))

	raw, ok, err := durable.Get(sessionUserKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, string(raw), "secret")

	restored, remembered := m.Restore()
	require.NotNil(t, restored)
	require.True(t, remembered)
	require.Empty(t, restored.Password)
}

func TestSessionManager_EphemeralPersistDropsRememberFlag(t *testing.T) {
	m, _, _ := newTestSessions(t)

	user := models.User{ID: "u1", Name: "Ana"}
	require.NoError(t, m.Persist(user, true))
	require.True(t, m.Remembered())

	require.NoError(t, m.Persist(user, false))
	require.False(t, m.Remembered())

	restored, remembered := m.Restore()
	require.NotNil(t, restored)
	require.False(t, remembered, "the ephemeral copy wins once the flag is gone")
}

func TestSessionManager_CorruptDurableSlotIsCleared(t *testing.T) {
	m, durable, _ := newTestSessions(t)

	require.NoError(t, durable.Set(sessionUserKey, []byte("{not json")))
	require.NoError(t, durable.Set(rememberFlagKey, []byte(rememberFlagTrue)))

	restored, _ := m.Restore()
	require.Nil(t, restored)

	_, ok, err := durable.Get(sessionUserKey)
	require.NoError(t, err)
	require.False(t, ok, "the unparsable slot is removed")
	require.False(t, m.Remembered(), "the flag goes with it")
}

func TestSessionManager_SlotWithoutIDIsRejected(t *testing.T) {
	m, _, ephemeral := newTestSessions(t)

	require.NoError(t, ephemeral.Set(sessionUserKey, []byte(`{"name":"ghost"}`)))

	restored, _ := m.Restore()
	require.Nil(t, restored)
}

func TestSessionManager_ClearIsIdempotent(t *testing.T) {
	m, _, _ := newTestSessions(t)

	require.NoError(t, m.Persist(models.User{ID: "u1"}, true))
	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())

	restored, _ := m.Restore()
	require.Nil(t, restored)
}
