package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"pavonify-live-client/internal/enrich"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	row   enrich.Row
}

func (s *countingSource) PreviewWord(_ context.Context, _ int, _ enrich.WordEntry) (enrich.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.row, nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPreviewCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{row: enrich.Row{
		Word:   "perro",
		Images: []enrich.ImageCandidate{{URL: "https://img.example/perro.jpg"}},
		Fact:   enrich.Fact{Text: "From Latin.", Type: enrich.FactEtymology},
	}}
	cache := NewPreviewCache(newClient(mr), source, time.Minute)

	row, err := cache.PreviewWord(context.Background(), 7, enrich.WordEntry{Word: "perro"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(row.Images) != 1 || row.Fact.Text != "From Latin." {
		t.Fatalf("unexpected row %+v", row)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected origin called once, got %d", source.callCount())
	}

	// Second call should hit Redis, origin not incremented.
	if _, err := cache.PreviewWord(context.Background(), 7, enrich.WordEntry{Word: "perro"}); err != nil {
		t.Fatalf("preview again: %v", err)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected cache hit, origin calls=%d", source.callCount())
	}
}

func TestPreviewCacheRefreshReachesOrigin(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{row: enrich.Row{Word: "sol"}}
	cache := NewPreviewCache(newClient(mr), source, time.Minute)

	if _, err := cache.PreviewWord(context.Background(), 7, enrich.WordEntry{Word: "sol"}); err != nil {
		t.Fatalf("preview: %v", err)
	}
	refresh := enrich.WordEntry{Word: "sol", ExcludeImages: []string{"https://img.example/1.jpg"}}
	if _, err := cache.PreviewWord(context.Background(), 7, refresh); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if source.callCount() != 2 {
		t.Fatalf("expected refresh to reach origin, got %d calls", source.callCount())
	}
}
