package nosql

import (
	"context"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
	"github.com/patrickmn/go-cache"
)

// MemoryCache 基于 go-cache 的进程内缓存，标签索引单独维护
type MemoryCache struct {
	store     *cache.Cache
	mu        sync.Mutex
	tagToKeys map[string]map[string]struct{}
	keyToTags map[string][]string
}

type memoryCacheConfig struct {
	expiration      time.Duration
	cleanupInterval time.Duration
}

type MemoryCacheOption func(*memoryCacheConfig)

// WithCleanupInterval 设置过期项的清理间隔
func WithCleanupInterval(d time.Duration) MemoryCacheOption {
	return func(c *memoryCacheConfig) {
		c.cleanupInterval = d
	}
}

// WithDefaultExpiration 设置 Set 时 ttl <= 0 使用的过期时间
func WithDefaultExpiration(d time.Duration) MemoryCacheOption {
	return func(c *memoryCacheConfig) {
		c.expiration = d
	}
}

func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	cfg := &memoryCacheConfig{
		expiration:      cache.NoExpiration,
		cleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &MemoryCache{
		store:     cache.New(cfg.expiration, cfg.cleanupInterval),
		tagToKeys: make(map[string]map[string]struct{}),
		keyToTags: make(map[string][]string),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]Row, error) {
	val, ok := c.store.Get(key)
	if !ok {
		c.mu.Lock()
		if _, found := c.store.Get(key); !found {
			c.untag(key)
		}
		c.mu.Unlock()
		return nil, ferr.ErrCacheMiss
	}
	rows, ok := val.([]Row)
	if !ok {
		return nil, ferr.ErrCacheMiss
	}
	return copyRows(rows), nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, rows []Row, ttl time.Duration, tags ...string) error {
	exp := ttl
	if ttl <= 0 {
		exp = cache.DefaultExpiration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(key, copyRows(rows), exp)
	c.untag(key)
	if len(tags) == 0 {
		return nil
	}
	c.keyToTags[key] = append([]string(nil), tags...)
	for _, tag := range tags {
		keys, ok := c.tagToKeys[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.tagToKeys[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(key)
	c.untag(key)
	return nil
}

func (c *MemoryCache) DeleteByTags(ctx context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.tagToKeys[tag] {
			c.store.Delete(key)
			c.untag(key)
		}
		delete(c.tagToKeys, tag)
	}
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.tagToKeys = make(map[string]map[string]struct{})
	c.keyToTags = make(map[string][]string)
	return nil
}

// Len 返回缓存项数量，包含尚未清理的过期项
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}

// untag 移除键的标签索引，调用方持有锁
func (c *MemoryCache) untag(key string) {
	tags, ok := c.keyToTags[key]
	if !ok {
		return
	}
	for _, tag := range tags {
		delete(c.tagToKeys[tag], key)
		if len(c.tagToKeys[tag]) == 0 {
			delete(c.tagToKeys, tag)
		}
	}
	delete(c.keyToTags, key)
}

// copyRows 浅拷贝每一行，避免调用方修改缓存内容
func copyRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	res := make([]Row, len(rows))
	for i, r := range rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		res[i] = nr
	}
	return res
}
