package rediscache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/go-redis/redis/v8"
)

var defaultPrefix = "nosql_cache_"
var defaultTagPrefix = "nosql_tag_"

// Cache 基于 Redis 的查询结果缓存，标签通过 Redis Set 记录键集合
type Cache struct {
	client    redis.Cmdable
	prefix    string
	tagPrefix string
	scanCount int64
}

type Option func(*Cache)

func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

func WithTagPrefix(prefix string) Option {
	return func(c *Cache) {
		c.tagPrefix = prefix
	}
}

// WithScanCount 设置 Clear 时每次 SCAN 的数量
func WithScanCount(n int64) Option {
	return func(c *Cache) {
		c.scanCount = n
	}
}

func New(client redis.Cmdable, opts ...Option) *Cache {
	c := &Cache{
		client:    client,
		prefix:    defaultPrefix,
		tagPrefix: defaultTagPrefix,
		scanCount: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ nosql.Cache = (*Cache)(nil)

func init() {
	// 行中以 any 保存的非基础类型需要注册
	gob.Register(time.Time{})
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

func (c *Cache) Get(ctx context.Context, key string) ([]nosql.Row, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nosql.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return decodeRows(data)
}

func (c *Cache) Set(ctx context.Context, key string, rows []nosql.Row, ttl time.Duration, tags ...string) error {
	data, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("failed to serialize rows: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.prefix+key, data, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, c.tagPrefix+tag, key)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *Cache) DeleteByTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := c.tagPrefix + tag
		keys, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return err
		}
		del := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			del = append(del, c.prefix+k)
		}
		del = append(del, tagKey)
		if err = c.client.Del(ctx, del...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Clear 删除当前前缀下的所有缓存项和标签
func (c *Cache) Clear(ctx context.Context) error {
	for _, pattern := range []string{c.prefix + "*", c.tagPrefix + "*"} {
		iter := c.client.Scan(ctx, 0, pattern, c.scanCount).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

// encodeRows 使用 gob 序列化，保留每个值的具体类型
func encodeRows(rows []nosql.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRows(data []byte) ([]nosql.Row, error) {
	var rows []nosql.Row
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []nosql.Row{}
	}
	return rows, nil
}
