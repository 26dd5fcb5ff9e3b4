package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/image-studio-backend/internal/imagesearch/types"
	"github.com/lk2023060901/image-studio-backend/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCacheTTL = 10 * time.Minute

// SearchCache stores aggregated search responses in Redis. A cache failure
// is never fatal: misses and errors both fall through to the providers.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewSearchCache creates a search cache. A zero ttl selects the default.
func NewSearchCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *SearchCache {
	if log == nil {
		log = logger.L()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SearchCache{client: client, ttl: ttl, logger: log.Named("searchcache")}
}

// Get returns the cached results for key, if present.
func (c *SearchCache) Get(ctx context.Context, key string) ([]types.ImageResult, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var results []types.ImageResult
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return results, true
}

// Set stores results under key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, results []types.ImageResult) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKeyAll(query string) string {
	return fmt.Sprintf("imagesearch:all:%s", query)
}

func cacheKeyFree(query string, count int) string {
	return fmt.Sprintf("imagesearch:free:%d:%s", count, query)
}

func (a *Aggregator) cacheGet(ctx context.Context, key string) ([]types.ImageResult, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(ctx, key)
}

func (a *Aggregator) cacheSet(ctx context.Context, key string, results []types.ImageResult) {
	if a.cache == nil {
		return
	}
	a.cache.Set(ctx, key, results)
}
