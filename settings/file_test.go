package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreContract(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "nested", "prefs.json"))
	require.NoError(t, err)
	storeContract(t, s)
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.json")

	s, err := NewFile(path)
	require.NoError(t, err)
	prefs, err := Load(ctx, s)
	require.NoError(t, err)
	_, err = prefs.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)
	require.NoError(t, prefs.SetDarkMode(ctx, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"favorites":"[\"bitcoin\"]","darkMode":"true"}`, string(data))

	s2, err := NewFile(path)
	require.NoError(t, err)
	again, err := Load(ctx, s2)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin"}, again.Favorites())
	assert.True(t, again.DarkMode())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	s, err := NewFile(path)
	require.NoError(t, err)
	_, _, err = s.Get(context.Background(), KeyFavorites)
	assert.Error(t, err)
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := NewFile("")
	assert.Error(t, err)
}
