package nosql

import (
	"context"
	"database/sql"
	"time"

	"github.com/fyerfyer/fyer-kit/pool"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdle     int           // 最大空闲连接数
	MaxActive   int           // 最大活动连接数，0 表示不限制
	MaxIdleTime time.Duration // 连接最大空闲时间
	MaxLifetime time.Duration // 连接最大生命周期
	InitialSize int           // 初始连接数
	WaitTimeout time.Duration // 等待可用连接的超时时间
	DialTimeout time.Duration // 创建连接的超时时间

	HealthCheck func(*sql.DB) bool
}

// DefaultPoolConfig 默认连接池配置
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdle:     10,
		MaxActive:   100,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: 30 * time.Minute,
		InitialSize: 0,
		WaitTimeout: 3 * time.Second,
		DialTimeout: 2 * time.Second,
		HealthCheck: pingCheck,
	}
}

func pingCheck(db *sql.DB) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	return db.PingContext(ctx) == nil
}

// PoolOption 连接池配置项
type PoolOption func(*PoolConfig)

func WithPoolMaxIdle(n int) PoolOption {
	return func(c *PoolConfig) {
		c.MaxIdle = n
	}
}

func WithPoolMaxActive(n int) PoolOption {
	return func(c *PoolConfig) {
		c.MaxActive = n
	}
}

func WithPoolMaxIdleTime(d time.Duration) PoolOption {
	return func(c *PoolConfig) {
		c.MaxIdleTime = d
	}
}

func WithPoolMaxLifetime(d time.Duration) PoolOption {
	return func(c *PoolConfig) {
		c.MaxLifetime = d
	}
}

func WithPoolInitialSize(n int) PoolOption {
	return func(c *PoolConfig) {
		c.InitialSize = n
	}
}

func WithPoolWaitTimeout(d time.Duration) PoolOption {
	return func(c *PoolConfig) {
		c.WaitTimeout = d
	}
}

func WithPoolDialTimeout(d time.Duration) PoolOption {
	return func(c *PoolConfig) {
		c.DialTimeout = d
	}
}

// WithPoolHealthCheck 设置创建连接时的健康检查，nil 表示不检查
func WithPoolHealthCheck(check func(*sql.DB) bool) PoolOption {
	return func(c *PoolConfig) {
		c.HealthCheck = check
	}
}

// WithPool 启用连接池
func WithPool(opts ...PoolOption) DBOption {
	return func(db *DB) error {
		config := DefaultPoolConfig()
		for _, opt := range opts {
			opt(config)
		}
		return WithPoolConfig(config)(db)
	}
}

// WithPoolConfig 使用给定配置启用连接池
func WithPoolConfig(config *PoolConfig) DBOption {
	return func(db *DB) error {
		if db.sqlDB == nil {
			return ferr.ErrInvalidConnection
		}
		db.pooledDB = NewPooledDB(db.sqlDB, config)
		db.executor = NewPooledExecutor(db.pooledDB)
		return nil
	}
}

// WithExistingPool 使用已存在的连接池
func WithExistingPool(p pool.Pool) DBOption {
	return func(db *DB) error {
		if db.sqlDB == nil {
			return ferr.ErrInvalidConnection
		}
		db.pooledDB = NewPooledDBWithPool(db.sqlDB, p)
		db.executor = NewPooledExecutor(db.pooledDB)
		return nil
	}
}
