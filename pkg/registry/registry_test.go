package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStoreAddRemoveList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.False(t, store.IsPaired("192.0.2.10"))
	require.NoError(t, store.Add("192.0.2.10"))
	require.True(t, store.IsPaired("192.0.2.10"))
	require.ElementsMatch(t, []string{"192.0.2.10"}, store.List())

	require.NoError(t, store.Remove("192.0.2.10"))
	require.False(t, store.IsPaired("192.0.2.10"))
}

func TestFileStorePersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Add("192.0.2.10"))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	require.True(t, second.IsPaired("192.0.2.10"))
}

func TestFileStoreSubscribeReceivesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	require.NoError(t, store.Add("192.0.2.10"))

	select {
	case list := <-ch:
		require.Contains(t, list, "192.0.2.10")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscription update")
	}
}

func TestSQLStoreAddRemoveList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	store, err := NewSQLStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.False(t, store.IsPaired("192.0.2.10"))
	require.NoError(t, store.Add("192.0.2.10"))
	require.True(t, store.IsPaired("192.0.2.10"))
	require.ElementsMatch(t, []string{"192.0.2.10"}, store.List())

	require.NoError(t, store.Remove("192.0.2.10"))
	require.False(t, store.IsPaired("192.0.2.10"))
}
