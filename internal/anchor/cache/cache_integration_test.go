//go:build integration

package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisattest/internal/anchor"
	platformredis "cisattest/internal/platform/redis"
	"cisattest/internal/report"
	"cisattest/pkg/testutil/containers"
)

const fingerprint = report.Hash("0xba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")

func newCache(t *testing.T, ttl time.Duration) *Cache {
	rc := containers.NewRedisContainer(t)
	client, err := platformredis.New(rc.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return New(client, ttl, slog.New(slog.DiscardHandler))
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newCache(t, time.Minute)

	_, ok := cache.Get(ctx, fingerprint)
	assert.False(t, ok)

	res := anchor.VerifyResult{
		Found:     true,
		Owner:     "0x3333333333333333333333333333333333333333",
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		CID:       "QmTest",
	}
	cache.Put(ctx, fingerprint, res)

	got, ok := cache.Get(ctx, fingerprint)
	require.True(t, ok)
	assert.Equal(t, res, got)
}

func TestCacheSkipsNegativeResults(t *testing.T) {
	ctx := context.Background()
	cache := newCache(t, time.Minute)

	cache.Put(ctx, fingerprint, anchor.VerifyResult{Found: false})

	_, ok := cache.Get(ctx, fingerprint)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := newCache(t, time.Second)

	cache.Put(ctx, fingerprint, anchor.VerifyResult{Found: true, Owner: "0xowner"})

	require.Eventually(t, func() bool {
		_, ok := cache.Get(ctx, fingerprint)
		return !ok
	}, 5*time.Second, 200*time.Millisecond)
}
