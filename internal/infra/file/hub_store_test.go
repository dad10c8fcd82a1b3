package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pavonify-live-client/internal/gamehub"
)

func TestHubStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "gamehub.json")
	store := NewHubStore(path)
	ctx := context.Background()

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if state != (gamehub.State{}) {
		t.Fatalf("expected zero state, got %+v", state)
	}

	if err := store.Save(ctx, gamehub.State{Energy: 77, Tokens: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}

	state, err = NewHubStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if state.Energy != 77 || state.Tokens != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestHubStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamehub.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := NewHubStore(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}
