package rates

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache remembers the tables returned by another Source, keyed by day, so
// grants approved on the same date cost one lookup. Failures are not cached.
type Cache struct {
	src   Source
	cache *lru.Cache[string, map[string]float64]
}

func NewCache(src Source, size int) (*Cache, error) {
	c, err := lru.New[string, map[string]float64](size)
	if err != nil {
		return nil, fmt.Errorf("creating rate cache: %w", err)
	}

	return &Cache{src: src, cache: c}, nil
}

func (c *Cache) Rates(ctx context.Context, date time.Time) (map[string]float64, error) {
	key := date.Format(time.DateOnly)

	if table, ok := c.cache.Get(key); ok {
		return table, nil
	}

	table, err := c.src.Rates(ctx, date)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, table)

	return table, nil
}
