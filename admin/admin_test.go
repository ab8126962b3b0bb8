package admin

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedAdmin = "U08UCCC0W4Q"

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admin_users.json")
	r, err := New(path, fixedAdmin)
	require.NoError(t, err)
	return r, path
}

func persistedChannels(t *testing.T, path string) map[string][]string {
	t.Helper()
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Channels map[string][]string `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Channels
}

func TestNewEstablishesDocument(t *testing.T) {
	_, path := newTestRegistry(t)
	assert.Empty(t, persistedChannels(t, path))
}

func TestFixedAdminAlwaysAuthorized(t *testing.T) {
	r, _ := newTestRegistry(t)

	assert.True(t, r.IsAdmin("C1", fixedAdmin))
	assert.True(t, r.IsAdmin("never-seen-channel", fixedAdmin))

	assert.Equal(t, ErrAlreadyAdmin, r.AddAdmin("C1", fixedAdmin))
	assert.Equal(t, ErrProtectedAdmin, r.RemoveAdmin("C1", fixedAdmin))
}

func TestAddRemoveAdmin(t *testing.T) {
	r, path := newTestRegistry(t)

	require.NoError(t, r.AddAdmin("C1", "U1"))
	require.NoError(t, r.AddAdmin("C1", "U2"))

	assert.True(t, r.IsAdmin("C1", "U1"))
	assert.False(t, r.IsAdmin("C2", "U1"))
	assert.Equal(t, ErrAlreadyAdmin, r.AddAdmin("C1", "U1"))

	assert.Equal(t, []string{fixedAdmin, "U1", "U2"}, r.ListAdmins("C1"))

	require.NoError(t, r.RemoveAdmin("C1", "U1"))
	assert.False(t, r.IsAdmin("C1", "U1"))
	assert.Equal(t, ErrNotAdmin, r.RemoveAdmin("C1", "U1"))

	assert.Equal(t, map[string][]string{"C1": {"U2"}}, persistedChannels(t, path))
}

func TestEmptyChannelPruned(t *testing.T) {
	r, path := newTestRegistry(t)

	require.NoError(t, r.AddAdmin("C1", "U1"))
	require.NoError(t, r.RemoveAdmin("C1", "U1"))

	channels := persistedChannels(t, path)
	_, ok := channels["C1"]
	assert.False(t, ok, "emptied channel entry must not persist")
}

func TestInitializeChannelNotPersisted(t *testing.T) {
	r, path := newTestRegistry(t)

	r.InitializeChannel("C1")
	r.InitializeChannel("C1")

	// Force a save through an unrelated channel.
	require.NoError(t, r.AddAdmin("C2", "U9"))

	channels := persistedChannels(t, path)
	_, ok := channels["C1"]
	assert.False(t, ok, "initialized-but-empty channel must not persist")
}

func TestRollbackOnSaveFailure(t *testing.T) {
	r, path := newTestRegistry(t)
	require.NoError(t, r.AddAdmin("C1", "U1"))

	// Replace the document with a directory so every save fails.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	t.Run("failed add is undone", func(t *testing.T) {
		err := r.AddAdmin("C1", "U2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "saving admin registry")
		assert.False(t, r.IsAdmin("C1", "U2"))
		assert.Equal(t, []string{fixedAdmin, "U1"}, r.ListAdmins("C1"))
	})

	t.Run("failed add leaves no channel entry behind", func(t *testing.T) {
		err := r.AddAdmin("C9", "U9")
		require.Error(t, err)
		_, ok := r.channels["C9"]
		assert.False(t, ok)
	})

	t.Run("failed remove keeps the admin", func(t *testing.T) {
		err := r.RemoveAdmin("C1", "U1")
		require.Error(t, err)
		assert.True(t, r.IsAdmin("C1", "U1"))
		assert.Equal(t, []string{fixedAdmin, "U1"}, r.ListAdmins("C1"))
	})
}

func TestReloadKeepsState(t *testing.T) {
	r, path := newTestRegistry(t)
	require.NoError(t, r.AddAdmin("C1", "U1"))

	reloaded, err := New(path, fixedAdmin)
	require.NoError(t, err)

	assert.True(t, reloaded.IsAdmin("C1", "U1"))
	assert.Equal(t, []string{fixedAdmin, "U1"}, reloaded.ListAdmins("C1"))
}
