package testsupport

import (
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/journal"
)

// MustOpenJournal opens the config's journal and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
