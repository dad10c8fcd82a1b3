package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pavonify-live-client/internal/gamehub"
)

// HubStore keeps game-hub state in Redis so a student's energy meter follows
// them across devices. A missing key reads as a zero meter.
type HubStore struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

func NewHubStore(client *redis.Client, owner string, ttl time.Duration) *HubStore {
	return &HubStore{client: client, owner: owner, ttl: ttl}
}

func (s *HubStore) Load(ctx context.Context) (gamehub.State, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
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

func (s *HubStore) Save(ctx context.Context, state gamehub.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(), data, s.ttl).Err()
}

func (s *HubStore) key() string {
	return "gamehub:state:" + s.owner
}
