package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pavonify-live-client/internal/enrich"
)

// PreviewCache caches enrichment suggestion rows with TTL to avoid repeated
// hits on the preview endpoint while a teacher edits a batch.
type PreviewCache struct {
	source enrich.RowSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedRow
}

type cachedRow struct {
	row       enrich.Row
	expiresAt time.Time
}

func NewPreviewCache(source enrich.RowSource, ttl time.Duration) *PreviewCache {
	return &PreviewCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRow),
	}
}

func (c *PreviewCache) PreviewWord(ctx context.Context, listID int, entry enrich.WordEntry) (enrich.Row, error) {
	// A refresh carries excluded image URLs and must reach the origin.
	if len(entry.ExcludeImages) > 0 {
		row, err := c.source.PreviewWord(ctx, listID, entry)
		if err != nil {
			return enrich.Row{}, err
		}
		c.put(cacheKey(listID, entry.Word), row)
		return row, nil
	}

	key := cacheKey(listID, entry.Word)
	now := c.clock()

	c.mu.RLock()
	if cached, ok := c.cache[key]; ok && cached.expiresAt.After(now) {
		c.mu.RUnlock()
		return cached.row, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if cached, ok := c.cache[key]; ok && cached.expiresAt.After(now) {
			c.mu.RUnlock()
			return cached.row, nil
		}
		c.mu.RUnlock()

		row, err := c.source.PreviewWord(ctx, listID, entry)
		if err != nil {
			return enrich.Row{}, err
		}
		c.put(key, row)
		return row, nil
	})
	if err != nil {
		return enrich.Row{}, err
	}
	return result.(enrich.Row), nil
}

func (c *PreviewCache) put(key string, row enrich.Row) {
	c.mu.Lock()
	c.cache[key] = cachedRow{
		row:       row,
		expiresAt: c.clock().Add(c.ttlWithJitter()),
	}
	c.mu.Unlock()
}

func cacheKey(listID int, word string) string {
	return strconv.Itoa(listID) + ":" + word
}

func (c *PreviewCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
