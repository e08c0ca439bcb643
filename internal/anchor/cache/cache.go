// Package cache provides a redis read-through cache for ledger verification
// lookups. Only positive results are stored; absence is never cached so a
// registration becomes visible on the very next lookup.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "cisattest/internal/platform/redis"

	"cisattest/internal/anchor"
	"cisattest/internal/report"
)

const keyPrefix = "cisattest:verify:"

// Cache implements anchor.VerifyCache on redis. Cache failures are logged and
// treated as misses; the ledger stays authoritative.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// New builds a verification cache with the given retention.
func New(client *platformredis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

func (c *Cache) Get(ctx context.Context, h report.Hash) (anchor.VerifyResult, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+string(h)).Bytes()
	if err != nil {
		return anchor.VerifyResult{}, false
	}
	var res anchor.VerifyResult
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn("corrupt verify cache entry dropped", "fingerprint", string(h), "error", err)
		c.client.Del(ctx, keyPrefix+string(h))
		return anchor.VerifyResult{}, false
	}
	return res, true
}

func (c *Cache) Put(ctx context.Context, h report.Hash, res anchor.VerifyResult) {
	if !res.Found {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+string(h), raw, c.ttl).Err(); err != nil {
		c.log.Warn("verify cache write failed", "fingerprint", string(h), "error", err)
	}
}
