package nosql

import (
	"context"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/cachekey"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Cache 查询结果缓存
type Cache interface {
	// Get 不存在时返回 ErrCacheMiss
	Get(ctx context.Context, key string) ([]Row, error)
	// Set ttl <= 0 表示不过期
	Set(ctx context.Context, key string, rows []Row, ttl time.Duration, tags ...string) error
	Delete(ctx context.Context, key string) error
	// DeleteByTags 删除带有任意一个标签的缓存
	DeleteByTags(ctx context.Context, tags ...string) error
	Clear(ctx context.Context) error
}

// TableCacheConfig 单张表的缓存配置
type TableCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	// Tags 额外的失效标签，表标签总是存在
	Tags []string
}

// CacheManager 决定哪些语句走缓存以及写操作后的失效
type CacheManager struct {
	cache      Cache
	mu         sync.RWMutex
	tables     map[string]*TableCacheConfig
	defaultTTL time.Duration
	enabled    bool
	cacheAll   bool
	keyGen     cachekey.Generator
	// generations 每张表的失效次数
	generations map[string]uint64
}

// CacheManagerOption 缓存管理器配置项
type CacheManagerOption func(*CacheManager)

func WithDefaultTTL(ttl time.Duration) CacheManagerOption {
	return func(cm *CacheManager) {
		cm.defaultTTL = ttl
	}
}

func WithKeyGenerator(g cachekey.Generator) CacheManagerOption {
	return func(cm *CacheManager) {
		cm.keyGen = g
	}
}

// WithCacheAll 没有单独配置的表也使用缓存
func WithCacheAll() CacheManagerOption {
	return func(cm *CacheManager) {
		cm.cacheAll = true
	}
}

// WithCacheTables 为指定的表开启缓存
func WithCacheTables(tables ...string) CacheManagerOption {
	return func(cm *CacheManager) {
		for _, t := range tables {
			cm.tables[t] = &TableCacheConfig{Enabled: true}
		}
	}
}

func NewCacheManager(cache Cache, opts ...CacheManagerOption) *CacheManager {
	cm := &CacheManager{
		cache:      cache,
		tables:      make(map[string]*TableCacheConfig),
		defaultTTL:  5 * time.Minute,
		enabled:     true,
		keyGen:      cachekey.NewDefaultGenerator("nosql"),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(cm)
	}
	return cm
}

// SetTableConfig 设置单张表的缓存配置
func (cm *CacheManager) SetTableConfig(table string, config *TableCacheConfig) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.tables[table] = config
}

func (cm *CacheManager) TableConfig(table string) (*TableCacheConfig, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	config, ok := cm.tables[table]
	return config, ok
}

func (cm *CacheManager) Enable() {
	cm.mu.Lock()
	cm.enabled = true
	cm.mu.Unlock()
}

func (cm *CacheManager) Disable() {
	cm.mu.Lock()
	cm.enabled = false
	cm.mu.Unlock()
}

func (cm *CacheManager) IsEnabled() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.enabled && cm.cache != nil
}

// Cache 返回底层缓存
func (cm *CacheManager) Cache() Cache {
	return cm.cache
}

// ShouldCache 只缓存 find 和 count
func (cm *CacheManager) ShouldCache(qc *QueryContext) bool {
	if !cm.IsEnabled() || qc.Statement == nil {
		return false
	}
	if qc.Operation != OperationFind && qc.Operation != OperationCount {
		return false
	}

	config, ok := cm.TableConfig(qc.Table)
	if !ok {
		return cm.cacheAll
	}
	return config.Enabled
}

// GenerateKey 生成缓存键
func (cm *CacheManager) GenerateKey(qc *QueryContext) string {
	if qc.Statement == nil {
		return ""
	}
	return cm.keyGen.Generate(qc.Table, qc.Operation, qc.Statement.SQL, qc.Statement.Args)
}

// TTL 返回表的缓存时间
func (cm *CacheManager) TTL(table string) time.Duration {
	config, ok := cm.TableConfig(table)
	if ok && config.TTL > 0 {
		return config.TTL
	}
	return cm.defaultTTL
}

// Tags 返回表的缓存标签，第一个总是表标签
func (cm *CacheManager) Tags(table string) []string {
	tags := []string{cachekey.TableTag(table)}
	if config, ok := cm.TableConfig(table); ok {
		tags = append(tags, config.Tags...)
	}
	return tags
}

// Generation 返回表的失效次数，每次 Invalidate 加一
func (cm *CacheManager) Generation(table string) uint64 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.generations[table]
}

// Invalidate 使表相关的缓存失效
func (cm *CacheManager) Invalidate(ctx context.Context, table string) error {
	cm.mu.Lock()
	cm.generations[table]++
	cm.mu.Unlock()

	if !cm.IsEnabled() {
		return ferr.ErrCacheDisabled
	}
	return cm.cache.DeleteByTags(ctx, cm.Tags(table)...)
}
