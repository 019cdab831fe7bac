package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hermandad/internal/model"
	"hermandad/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "items:"

// 每次发布递增，键中带有代数，旧代写入的条目不会再被读到
const generationKey = keyPrefix + "gen"

// DefaultTTL 列表与详情缓存时间
const DefaultTTL = 5 * time.Minute

// Cache 列表页与详情页缓存
//
// 读库之前先取 Generation，键由 ListingKey/DetailKey 带上该代数生成。
// Generation 返回 false 时不应读写缓存。
type Cache interface {
	Generation(ctx context.Context) (int64, bool)
	GetListing(ctx context.Context, key string) (*model.Listing, bool)
	SetListing(ctx context.Context, key string, listing *model.Listing)
	GetDetail(ctx context.Context, key string) (*model.ItemDetail, bool)
	SetDetail(ctx context.Context, key string, detail *model.ItemDetail)
	Invalidate(ctx context.Context) error
}

// ListingKey 由代数和查询参数生成列表缓存键。
// region 必须与过滤条件使用的值一致，地区比较区分大小写；query 与过滤条件一样转为小写。
func ListingKey(gen int64, region, query string, page, perPage int) string {
	return fmt.Sprintf("%sg%d:list:%s:%s:%d:%d", keyPrefix, gen,
		strings.TrimSpace(region), strings.ToLower(strings.TrimSpace(query)), page, perPage)
}

// DetailKey 详情缓存键
func DetailKey(gen, id int64) string {
	return fmt.Sprintf("%sg%d:detail:%d", keyPrefix, gen, id)
}

// RedisCache 基于Redis的缓存实现
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisCache 创建Redis缓存
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Generation 返回当前缓存代数，Redis 不可用时返回 false
func (c *RedisCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("读取缓存代数失败", "error", err)
		return 0, false
	}
	return gen, true
}

// GetListing 读取列表缓存
func (c *RedisCache) GetListing(ctx context.Context, key string) (*model.Listing, bool) {
	var listing model.Listing
	if !c.get(ctx, key, &listing) {
		return nil, false
	}
	return &listing, true
}

// SetListing 写入列表缓存
func (c *RedisCache) SetListing(ctx context.Context, key string, listing *model.Listing) {
	c.set(ctx, key, listing)
}

// GetDetail 读取详情缓存
func (c *RedisCache) GetDetail(ctx context.Context, key string) (*model.ItemDetail, bool) {
	var detail model.ItemDetail
	if !c.get(ctx, key, &detail) {
		return nil, false
	}
	return &detail, true
}

// SetDetail 写入详情缓存
func (c *RedisCache) SetDetail(ctx context.Context, key string, detail *model.ItemDetail) {
	c.set(ctx, key, detail)
}

// Invalidate 递增代数使现有条目全部失效，旧条目由TTL清除
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *RedisCache) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("读取缓存失败", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("缓存数据损坏", "key", key, "error", err)
		return false
	}
	return true
}

func (c *RedisCache) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("写入缓存失败", "key", key, "error", err)
	}
}

// Nop 未配置Redis时使用，不缓存任何内容
type Nop struct{}

func (Nop) Generation(context.Context) (int64, bool) { return 0, false }
func (Nop) GetListing(context.Context, string) (*model.Listing, bool) { return nil, false }
func (Nop) SetListing(context.Context, string, *model.Listing) {}
func (Nop) GetDetail(context.Context, string) (*model.ItemDetail, bool) { return nil, false }
func (Nop) SetDetail(context.Context, string, *model.ItemDetail) {}
func (Nop) Invalidate(context.Context) error { return nil }
