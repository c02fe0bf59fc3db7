// Package settings holds the user's dashboard preferences (favorite coins and
// the theme) and keeps them in sync with a durable key/value store.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys under which preferences are persisted.
const (
	KeyFavorites = "favorites" // JSON array of coin ids
	KeyDarkMode  = "darkMode"  // "true" or "false"
)

// Store is a durable string key/value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Preferences is a point in time copy of the settings.
type Preferences struct {
	Favorites []string `json:"favorites"`
	DarkMode  bool     `json:"darkMode"`
}

// Settings is the in-memory settings object. Every mutation is written
// through to the store before it returns; a failed write leaves the previous
// value in place.
type Settings struct {
	mu        sync.RWMutex
	store     Store
	favorites []string
	darkMode  bool
	logger    zerolog.Logger
}

// Load reads the preferences from store. Missing keys fall back to no
// favorites and the light theme; unreadable values are logged and ignored.
func Load(ctx context.Context, store Store) (*Settings, error) {
	s := &Settings{
		store:     store,
		favorites: []string{},
		logger:    log.With().Str("component", "settings").Logger(),
	}

	raw, ok, err := store.Get(ctx, KeyFavorites)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyFavorites, err)
	}
	if ok {
		favs, err := decodeFavorites(raw)
		if err != nil {
			s.logger.Warn().Err(err).Msg("ignoring unreadable favorites")
		} else {
			s.favorites = favs
		}
	}

	raw, ok, err = store.Get(ctx, KeyDarkMode)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyDarkMode, err)
	}
	if ok {
		dark, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			s.logger.Warn().Str("value", raw).Msg("ignoring unreadable darkMode")
		} else {
			s.darkMode = dark
		}
	}

	return s, nil
}

func decodeFavorites(raw string) ([]string, error) {
	var favs []string
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(favs))
	for _, id := range favs {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Favorites returns the favorite coin ids in the order they were added.
func (s *Settings) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// IsFavorite reports whether id is a favorite.
func (s *Settings) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.favorites, id)
}

// ToggleFavorite adds id to the favorites, or removes it if present, and
// returns whether it is a favorite afterwards.
func (s *Settings) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("settings: empty coin id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var next []string
	added := !slices.Contains(s.favorites, id)
	if added {
		next = append(slices.Clone(s.favorites), id)
	} else {
		next = slices.DeleteFunc(slices.Clone(s.favorites), func(f string) bool { return f == id })
	}

	b, err := json.Marshal(next)
	if err != nil {
		return !added, err
	}
	if err := s.store.Set(ctx, KeyFavorites, string(b)); err != nil {
		return !added, fmt.Errorf("save %s: %w", KeyFavorites, err)
	}

	s.favorites = next
	s.logger.Debug().Str("coin", id).Bool("favorite", added).Msg("favorites updated")
	return added, nil
}

// DarkMode reports the theme preference.
func (s *Settings) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode stores the theme preference.
func (s *Settings) SetDarkMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(ctx, KeyDarkMode, strconv.FormatBool(on)); err != nil {
		return fmt.Errorf("save %s: %w", KeyDarkMode, err)
	}
	s.darkMode = on
	return nil
}

// Snapshot copies the current preferences.
func (s *Settings) Snapshot() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Preferences{Favorites: slices.Clone(s.favorites), DarkMode: s.darkMode}
}

// Close closes the underlying store.
func (s *Settings) Close() error {
	return s.store.Close()
}
