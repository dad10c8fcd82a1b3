// Package gamehub tracks the energy and game tokens a student earns while
// practicing. The hub is an explicit object owned by the application root and
// injected into consumers; Init and Flush are its load/save boundaries.
package gamehub

import (
	"context"
	"sync"
)

// State is the persisted slice of the hub.
type State struct {
	Energy int `json:"energy"`
	Tokens int `json:"tokens"`
}

// Store abstracts where hub state lives (in-memory, JSON file, Redis).
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

const (
	// DefaultMaxTokens caps how many game tokens can be banked.
	DefaultMaxTokens = 3
	// EnergyPerToken is the energy cost of minting one token.
	EnergyPerToken = 100
	// energyCapWhenFull keeps the meter visibly below a full bar once the
	// token bank is full.
	energyCapWhenFull = EnergyPerToken - 1
)

// Hub is safe for concurrent use.
type Hub struct {
	store     Store
	maxTokens int

	mu     sync.Mutex
	energy int
	tokens int
}

// New builds a hub over the given store with DefaultMaxTokens.
func New(store Store) *Hub {
	return &Hub{store: store, maxTokens: DefaultMaxTokens}
}

// Init loads persisted state. Out-of-range values are clamped rather than
// rejected; a fresh store yields a zero meter.
func (h *Hub) Init(ctx context.Context) error {
	state, err := h.store.Load(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.energy = clamp(state.Energy, 0, energyCapWhenFull)
	h.tokens = clamp(state.Tokens, 0, h.maxTokens)
	h.mu.Unlock()
	return nil
}

// Flush persists the current state. Callers invoke it at teardown.
func (h *Hub) Flush(ctx context.Context) error {
	h.mu.Lock()
	state := State{Energy: h.energy, Tokens: h.tokens}
	h.mu.Unlock()
	return h.store.Save(ctx, state)
}

// GainEnergy adds base energy plus a streak bonus (+1 from streak 10, +2
// from streak 20), converting every full 100 energy into a token until the
// bank is full, then capping the meter at 99.
func (h *Hub) GainEnergy(base, streak int) {
	bonus := 0
	switch {
	case streak >= 20:
		bonus = 2
	case streak >= 10:
		bonus = 1
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.energy + base + bonus
	for next >= EnergyPerToken && h.tokens < h.maxTokens {
		next -= EnergyPerToken
		h.tokens++
	}
	if h.tokens >= h.maxTokens && next > energyCapWhenFull {
		next = energyCapWhenFull
	}
	h.energy = next
}

// OnQuestionResult feeds one answered question into the meter.
func (h *Hub) OnQuestionResult(correct bool, streak int) {
	if correct {
		h.GainEnergy(1, streak)
	}
}

// ConsumeToken spends one token, reporting whether one was available.
func (h *Hub) ConsumeToken() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.tokens <= 0 {
		return false
	}
	h.tokens--
	return true
}

// ResetEnergy clears the meter but leaves banked tokens alone.
func (h *Hub) ResetEnergy() {
	h.mu.Lock()
	h.energy = 0
	h.mu.Unlock()
}

// Energy reports the current meter value.
func (h *Hub) Energy() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.energy
}

// Tokens reports the banked token count.
func (h *Hub) Tokens() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tokens
}

// MaxTokens reports the token bank capacity.
func (h *Hub) MaxTokens() int {
	return h.maxTokens
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
