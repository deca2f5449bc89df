package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/store"
)

const emptySnapshot = `{"users":[],"projects":[],"wikiEntries":[],"notes":[],"comments":[],"sqlScripts":[],"likes":[]}`

// newTestStore returns a store primed with an empty snapshot so tests never
// depend on the seed fixture.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.SnapshotKey, []byte(emptySnapshot)))

	st, err := store.New(kv)
	require.NoError(t, err)
	return st
}

func ptr[T any](v T) *T {
	return &v
}
