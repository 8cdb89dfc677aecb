package testsupport

import (
	"context"
	"testing"

	"promptkit/internal/config"
	"promptkit/internal/promptstore"
)

// MustOpenSQLite opens the prompt library configured in cfg and registers cleanup.
func MustOpenSQLite(t testing.TB, cfg *config.Config) *promptstore.SQLite {
	t.Helper()

	store, err := promptstore.OpenSQLite(context.Background(), cfg.Prompts.DBPath)
	if err != nil {
		t.Fatalf("promptstore.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
