package gamehub_test

import (
	"context"
	"testing"

	"pavonify-live-client/internal/gamehub"
	"pavonify-live-client/internal/infra/memory"
)

func TestGainEnergyStreakBonus(t *testing.T) {
	cases := []struct {
		name   string
		streak int
		want   int
	}{
		{"no streak", 0, 1},
		{"short streak", 9, 1},
		{"ten streak", 10, 2},
		{"long streak", 20, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hub := gamehub.New(memory.NewHubStore())
			hub.GainEnergy(1, tc.streak)
			if got := hub.Energy(); got != tc.want {
				t.Fatalf("energy = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEnergyConvertsToTokens(t *testing.T) {
	hub := gamehub.New(memory.NewHubStore())
	hub.GainEnergy(250, 0)
	if got := hub.Tokens(); got != 2 {
		t.Fatalf("tokens = %d, want 2", got)
	}
	if got := hub.Energy(); got != 50 {
		t.Fatalf("energy = %d, want 50", got)
	}
}

func TestEnergyCappedWhenBankFull(t *testing.T) {
	hub := gamehub.New(memory.NewHubStore())
	hub.GainEnergy(500, 0)
	if got := hub.Tokens(); got != gamehub.DefaultMaxTokens {
		t.Fatalf("tokens = %d, want %d", got, gamehub.DefaultMaxTokens)
	}
	if got := hub.Energy(); got != 99 {
		t.Fatalf("energy = %d, want cap of 99", got)
	}
}

func TestConsumeToken(t *testing.T) {
	hub := gamehub.New(memory.NewHubStore())
	if hub.ConsumeToken() {
		t.Fatal("expected no token to consume")
	}
	hub.GainEnergy(100, 0)
	if !hub.ConsumeToken() {
		t.Fatal("expected a token")
	}
	if got := hub.Tokens(); got != 0 {
		t.Fatalf("tokens = %d, want 0", got)
	}
}

func TestOnQuestionResult(t *testing.T) {
	hub := gamehub.New(memory.NewHubStore())
	hub.OnQuestionResult(false, 5)
	if got := hub.Energy(); got != 0 {
		t.Fatalf("wrong answers must not add energy, got %d", got)
	}
	hub.OnQuestionResult(true, 12)
	if got := hub.Energy(); got != 2 {
		t.Fatalf("energy = %d, want 2", got)
	}
}

func TestResetEnergyKeepsTokens(t *testing.T) {
	hub := gamehub.New(memory.NewHubStore())
	hub.GainEnergy(150, 0)
	hub.ResetEnergy()
	if got := hub.Energy(); got != 0 {
		t.Fatalf("energy = %d, want 0", got)
	}
	if got := hub.Tokens(); got != 1 {
		t.Fatalf("tokens = %d, want 1", got)
	}
}

func TestInitAndFlushRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHubStore()

	hub := gamehub.New(store)
	if err := hub.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	hub.GainEnergy(130, 0)
	if err := hub.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := gamehub.New(store)
	if err := reloaded.Init(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Energy() != 30 || reloaded.Tokens() != 1 {
		t.Fatalf("unexpected reloaded state energy=%d tokens=%d", reloaded.Energy(), reloaded.Tokens())
	}
}

func TestInitClampsCorruptState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewHubStore()
	if err := store.Save(ctx, gamehub.State{Energy: -5, Tokens: 99}); err != nil {
		t.Fatalf("save: %v", err)
	}

	hub := gamehub.New(store)
	if err := hub.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if hub.Energy() != 0 {
		t.Fatalf("energy = %d, want clamped 0", hub.Energy())
	}
	if hub.Tokens() != gamehub.DefaultMaxTokens {
		t.Fatalf("tokens = %d, want clamped %d", hub.Tokens(), gamehub.DefaultMaxTokens)
	}
}
