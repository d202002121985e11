// Package cache stores computed EMI results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/homefinder/loancalc/internal/domain/model"
	"github.com/homefinder/loancalc/internal/domain/port"
)

var _ port.ResultCache = (*ResultCache)(nil)

// DefaultTTL bounds how long a computed schedule is kept.
const DefaultTTL = time.Hour

// ResultCache implements port.ResultCache on Redis. Results are stored as
// JSON under prefix+key.
type ResultCache struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewResultCache wraps a Redis client. A non-positive ttl selects DefaultTTL.
func NewResultCache(client goredis.Cmdable, prefix string, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ResultCache) Get(ctx context.Context, key string) (model.EMIResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.EMIResult{}, false, nil
	}
	if err != nil {
		return model.EMIResult{}, false, fmt.Errorf("redis get: %w", err)
	}

	var res model.EMIResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// A payload from an older layout counts as a miss.
		return model.EMIResult{}, false, nil
	}
	return res, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, res model.EMIResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
