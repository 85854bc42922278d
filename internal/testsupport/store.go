package testsupport

import (
	"testing"

	"playlister/internal/config"
	"playlister/internal/history"
)

// MustOpenHistory opens the history database configured on cfg and closes it
// when the test finishes.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
