package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/nootfarm/noot-arcade/internal/registry"
)

// ScopedKey namespaces key under scope, the way SSH sessions keep one
// saved state per user. An empty scope leaves key as is.
func ScopedKey(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + "/" + key
}

// ScopedState is a view of a state store with every key namespaced by
// ScopedKey, so each SSH user keeps their own slot machine.
type ScopedState struct {
	inner registry.StateStore
	scope string
}

// Scope returns the view of inner under scope.
func Scope(inner registry.StateStore, scope string) ScopedState {
	return ScopedState{inner: inner, scope: scope}
}

func (s ScopedState) LoadState(key string) ([]byte, bool, error) {
	return s.inner.LoadState(ScopedKey(s.scope, key))
}

func (s ScopedState) SaveState(key string, value []byte) error {
	return s.inner.SaveState(ScopedKey(s.scope, key), value)
}

// LoadState returns the blob stored under key. found is false when the key
// has never been written.
func (s *Store) LoadState(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot load state %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// SaveState writes value under key, replacing any previous value.
func (s *Store) SaveState(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save state %q: %w", key, err)
	}
	return nil
}

// DeleteState removes key.
func (s *Store) DeleteState(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_state WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete state %q: %w", key, err)
	}
	return nil
}

var _ registry.StateStore = (*Store)(nil)

// ResetProgress deletes the progress game id saved for scope. It reports
// whether anything had been saved.
func (s *Store) ResetProgress(id, scope string) (bool, error) {
	g, err := registry.Create(id)
	if err != nil {
		return false, err
	}
	r, ok := g.(registry.ProgressReporter)
	if !ok {
		return false, fmt.Errorf("storage: %s keeps no progress", id)
	}

	key := ScopedKey(scope, r.StateKey())
	if _, found, err := s.LoadState(key); err != nil || !found {
		return false, err
	}
	return true, s.DeleteState(key)
}
