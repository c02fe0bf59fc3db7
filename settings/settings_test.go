package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	failSet bool
	failGet bool
}

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("boom")
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

// storeContract checks the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyDarkMode, "true"))
	v, ok, err := s.Get(ctx, KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, s.Set(ctx, KeyDarkMode, "false"))
	v, _, err = s.Get(ctx, KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, s.Set(ctx, KeyFavorites, `["bitcoin","ethereum"]`))
	v, _, err = s.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `["bitcoin","ethereum"]`, v)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(context.Background(), NewMemory())
	require.NoError(t, err)

	assert.Empty(t, s.Favorites())
	assert.NotNil(t, s.Favorites())
	assert.False(t, s.DarkMode())
}

func TestLoadExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, KeyFavorites, `["bitcoin","solana","bitcoin",""]`))
	require.NoError(t, store.Set(ctx, KeyDarkMode, "true"))

	s, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "solana"}, s.Favorites())
	assert.True(t, s.DarkMode())
	assert.True(t, s.IsFavorite("solana"))
	assert.False(t, s.IsFavorite("dogecoin"))
}

func TestLoadIgnoresCorruptValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Set(ctx, KeyFavorites, `{not json`))
	require.NoError(t, store.Set(ctx, KeyDarkMode, "maybe"))

	s, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, s.Favorites())
	assert.False(t, s.DarkMode())
}

func TestLoadStoreError(t *testing.T) {
	_, err := Load(context.Background(), &failingStore{MemoryStore: NewMemory(), failGet: true})
	assert.Error(t, err)
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	s, err := Load(ctx, store)
	require.NoError(t, err)

	on, err := s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.ToggleFavorite(ctx, "ethereum")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, s.Favorites())

	raw, _, _ := store.Get(ctx, KeyFavorites)
	assert.JSONEq(t, `["bitcoin","ethereum"]`, raw)

	on, err = s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"ethereum"}, s.Favorites())

	raw, _, _ = store.Get(ctx, KeyFavorites)
	assert.JSONEq(t, `["ethereum"]`, raw)
}

func TestToggleTwiceRestores(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, NewMemory())
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "cardano")
	require.NoError(t, err)

	before := s.Favorites()
	_, err = s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, before, s.Favorites())
}

func TestToggleEmptyID(t *testing.T) {
	s, err := Load(context.Background(), NewMemory())
	require.NoError(t, err)
	_, err = s.ToggleFavorite(context.Background(), "")
	assert.Error(t, err)
}

func TestFailedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemory()}
	s, err := Load(ctx, store)
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)

	store.failSet = true
	on, err := s.ToggleFavorite(ctx, "bitcoin")
	require.Error(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"bitcoin"}, s.Favorites())

	assert.Error(t, s.SetDarkMode(ctx, true))
	assert.False(t, s.DarkMode())
}

func TestSetDarkMode(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	s, err := Load(ctx, store)
	require.NoError(t, err)

	require.NoError(t, s.SetDarkMode(ctx, true))
	assert.True(t, s.DarkMode())
	raw, _, _ := store.Get(ctx, KeyDarkMode)
	assert.Equal(t, "true", raw)

	reloaded, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Preferences{Favorites: []string{}, DarkMode: true}, reloaded.Snapshot())
}

func TestFavoritesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, err := Load(ctx, NewMemory())
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "bitcoin")
	require.NoError(t, err)

	favs := s.Favorites()
	favs[0] = "mutated"
	assert.Equal(t, []string{"bitcoin"}, s.Favorites())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, KindMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, "FILE", t.TempDir()+"/prefs.json")
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, KindSQLite, "")
	assert.Error(t, err)

	_, err = Open(ctx, "etcd", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown settings store")
}
