package memory

import (
	"context"
	"sync"

	"pavonify-live-client/internal/gamehub"
)

// HubStore is an in-memory implementation of gamehub.Store.
type HubStore struct {
	mu    sync.RWMutex
	state gamehub.State
}

func NewHubStore() *HubStore {
	return &HubStore{}
}

func (s *HubStore) Load(_ context.Context) (gamehub.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *HubStore) Save(_ context.Context, state gamehub.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	return nil
}
