package testsupport

import (
	"context"
	"testing"

	"talkcut/internal/config"
	"talkcut/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RegisterTalk records a talk in the ledger for tests.
func RegisterTalk(t testing.TB, store *ledger.Store, runID, talkID, room, title string) *ledger.Item {
	t.Helper()

	item, err := store.Register(context.Background(), runID, talkID, room, title)
	if err != nil {
		t.Fatalf("store.Register: %v", err)
	}
	return item
}
