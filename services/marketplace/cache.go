package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"suntrack/models"
	"suntrack/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PageCache caches publication pages keyed by the query. All methods
// are best-effort: a failing cache degrades to database reads, never
// to request failures.
type PageCache interface {
	// Get returns the cached page for the key, or nil on a miss.
	Get(ctx context.Context, key string) []models.Publication
	// Set stores the page under the key with the configured TTL.
	Set(ctx context.Context, key string, publications []models.Publication)
	// InvalidateAll drops every cached page. Called on any write so
	// readers never see a stale listing for the full TTL.
	InvalidateAll(ctx context.Context)
}

// cacheKey derives a stable cache key from the page selection and the
// category filters; filter order must not matter.
func cacheKey(p Pagination, f Filters) string {
	products := make([]string, 0, len(f.ProductCategories))
	for _, c := range f.ProductCategories {
		products = append(products, string(c))
	}
	services := make([]string, 0, len(f.ServiceCategories))
	for _, c := range f.ServiceCategories {
		services = append(services, string(c))
	}
	sort.Strings(products)
	sort.Strings(services)

	return fmt.Sprintf("%spage=%d&limit=%d&pc=%s&sc=%s",
		utils.PublicationsCachePrefix, p.Page, p.Limit,
		strings.Join(products, ","), strings.Join(services, ","))
}

// RedisPageCache is the production PageCache.
type RedisPageCache struct {
	client *redis.Client
}

// NewRedisPageCache wraps an initialized Redis client.
func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{client: client}
}

func (c *RedisPageCache) Get(ctx context.Context, key string) []models.Publication {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("Publications cache read failed", zap.Error(err))
		}
		return nil
	}

	var publications []models.Publication
	if err := json.Unmarshal([]byte(raw), &publications); err != nil {
		utils.GetLogger().Warn("Publications cache entry corrupt", zap.Error(err))
		return nil
	}
	return publications
}

func (c *RedisPageCache) Set(ctx context.Context, key string, publications []models.Publication) {
	raw, err := json.Marshal(publications)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, utils.PublicationsCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Publications cache write failed", zap.Error(err))
	}
}

func (c *RedisPageCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, utils.PublicationsCachePrefix+"*", 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("Publications cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		utils.GetLogger().Warn("Publications cache invalidation failed", zap.Error(err))
	}
}
