package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 24 * time.Hour

// Cache 基于 Redis 的译文缓存。热榜标题在多个栏目间高度重复，
// 命中缓存可以省掉一次外部翻译调用。未配置 Redis 时为 nil，调用方无需判空
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

func (c *Cache) Get(ctx context.Context, text string) (string, bool) {
	if c == nil || c.rdb == nil {
		return "", false
	}
	v, err := c.rdb.Get(ctx, cacheKey(text)).Result()
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (c *Cache) Set(ctx context.Context, text, translated string) {
	if c == nil || c.rdb == nil || translated == "" {
		return
	}
	_ = c.rdb.Set(ctx, cacheKey(text), translated, cacheTTL).Err()
}

func cacheKey(text string) string {
	h := sha1.Sum([]byte(text))
	return "trendpush:tr:" + hex.EncodeToString(h[:])
}
