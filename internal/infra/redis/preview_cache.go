package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"pavonify-live-client/internal/enrich"
)

// PreviewCache caches enrichment suggestion rows in Redis and falls back to
// the origin on cache miss. Rows are stored as JSON under
// enrich:preview:{listID}:{word}.
type PreviewCache struct {
	client *redis.Client
	source enrich.RowSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPreviewCache(client *redis.Client, source enrich.RowSource, ttl time.Duration) *PreviewCache {
	return &PreviewCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *PreviewCache) PreviewWord(ctx context.Context, listID int, entry enrich.WordEntry) (enrich.Row, error) {
	key := c.key(listID, entry.Word)

	// A refresh carries excluded image URLs and must reach the origin.
	if len(entry.ExcludeImages) > 0 {
		row, err := c.source.PreviewWord(ctx, listID, entry)
		if err != nil {
			return enrich.Row{}, err
		}
		c.store(ctx, key, row)
		return row, nil
	}

	if row, ok := c.fetch(ctx, key); ok {
		return row, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if row, ok := c.fetch(ctx, key); ok {
			return row, nil
		}

		row, err := c.source.PreviewWord(ctx, listID, entry)
		if err != nil {
			return enrich.Row{}, err
		}
		c.store(ctx, key, row)
		return row, nil
	})
	if err != nil {
		return enrich.Row{}, err
	}
	return result.(enrich.Row), nil
}

func (c *PreviewCache) fetch(ctx context.Context, key string) (enrich.Row, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return enrich.Row{}, false
	}
	var row enrich.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return enrich.Row{}, false
	}
	return row, true
}

func (c *PreviewCache) store(ctx context.Context, key string, row enrich.Row) {
	data, err := json.Marshal(row)
	if err != nil {
		return
	}
	// best-effort write, the origin row is already in hand
	_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
}

func (c *PreviewCache) key(listID int, word string) string {
	return "enrich:preview:" + strconv.Itoa(listID) + ":" + word
}

func (c *PreviewCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
