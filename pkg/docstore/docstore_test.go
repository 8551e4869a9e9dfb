package docstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	store, err := New(filepath.Join(base, "pending"), filepath.Join(base, "done"))
	require.NoError(t, err)
	return store
}

func TestStoreWriteAndListPending(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WritePending("team-b", "week_2.json", []byte("[]")))
	require.NoError(t, store.WritePending("team-b", "week_1.json", []byte("[]")))
	require.NoError(t, store.WritePending("team-a", "week_1.json", []byte("[]")))

	teams, err := store.PendingTeams()
	require.NoError(t, err)
	assert.Equal(t, []string{"team-a", "team-b"}, teams)

	docs, err := store.PendingDocuments("team-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"week_1.json", "week_2.json"}, docs)
}

func TestStoreMoveToDone(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WritePending("team-a", "week_1.json", []byte("[1]")))
	require.NoError(t, store.MoveToDone("team-a", "week_1.json", []byte("[2]")))

	pending, err := store.PendingDocuments("team-a")
	require.NoError(t, err)
	assert.Empty(t, pending)

	data, err := store.ReadDone("team-a", "week_1.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("[2]"), data)
}

func TestStoreRemoveTeam(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.WritePending("team-a", "week_1.json", []byte("[]")))
	require.NoError(t, store.WriteDone("team-a", "week_2.json", []byte("[]")))
	require.NoError(t, store.RemoveTeam("team-a"))

	pending, err := store.PendingDocuments("team-a")
	require.NoError(t, err)
	assert.Empty(t, pending)

	done, err := store.DoneDocuments("team-a")
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestStoreMissingTeamIsEmptyNotError(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.PendingDocuments("ghost")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
