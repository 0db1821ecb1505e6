package testsupport

import (
	"testing"

	"reelsync/internal/config"
	"reelsync/internal/pending"
)

// MustOpenPending opens a pending.Store for tests and registers cleanup.
func MustOpenPending(t testing.TB, cfg *config.Config) *pending.Store {
	t.Helper()

	store, err := pending.Open(cfg)
	if err != nil {
		t.Fatalf("pending.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
