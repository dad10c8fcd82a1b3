// Package file persists game-hub state as a small JSON file, the fallback
// when no Redis address is configured.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"pavonify-live-client/internal/gamehub"
)

type HubStore struct {
	path string
}

func NewHubStore(path string) *HubStore {
	return &HubStore{path: path}
}

// Load reads the state file. A missing file reads as a zero meter.
func (s *HubStore) Load(_ context.Context) (gamehub.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return gamehub.State{}, nil
	}
	if err != nil {
		return gamehub.State{}, err
	}
	var state gamehub.State
	if err := json.Unmarshal(data, &state); err != nil {
		return gamehub.State{}, err
	}
	return state, nil
}

func (s *HubStore) Save(_ context.Context, state gamehub.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
