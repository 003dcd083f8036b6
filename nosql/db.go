package nosql

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// DB 一个数据库连接，方言在创建时确定
type DB struct {
	sqlDB    *sql.DB
	dialect  Dialect
	executor Executor
	pooledDB *PooledDB

	mu          sync.RWMutex
	handler     Handler
	middlewares []Middleware

	logger       logger.Logger
	debug        bool
	cacheManager *CacheManager

	closed atomic.Bool
}

// DBOption 定义配置项
type DBOption func(*DB) error

// Open 使用已有数据库创建 db 对象
func Open(sqlDB *sql.DB, dialectName string, opts ...DBOption) (*DB, error) {
	if sqlDB == nil {
		return nil, ferr.ErrInvalidConnection
	}
	return newDB(sqlDB, NewSQLExecutor(sqlDB), dialectName, opts...)
}

// OpenExecutor 使用自定义执行器创建 db 对象
func OpenExecutor(executor Executor, dialectName string, opts ...DBOption) (*DB, error) {
	if executor == nil {
		return nil, ferr.ErrInvalidConnection
	}
	return newDB(nil, executor, dialectName, opts...)
}

// OpenDB 使用驱动和 dsn 创建 db 对象
func OpenDB(driver, dsn string, dialectName string, opts ...DBOption) (*DB, error) {
	if _, err := GetDialect(dialectName); err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := Open(sqlDB, dialectName, opts...)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func newDB(sqlDB *sql.DB, executor Executor, dialectName string, opts ...DBOption) (*DB, error) {
	dialect, err := GetDialect(dialectName)
	if err != nil {
		return nil, err
	}

	db := &DB{
		sqlDB:    sqlDB,
		dialect:  dialect,
		executor: executor,
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	db.buildHandler()
	return db, nil
}

// WithDebug 执行前输出编译后的语句
func WithDebug() DBOption {
	return func(db *DB) error {
		db.debug = true
		return nil
	}
}

// WithLogger 设置日志，默认使用 logger.Default()
func WithLogger(l logger.Logger) DBOption {
	return func(db *DB) error {
		if l != nil {
			db.logger = l
		}
		return nil
	}
}

// WithMiddlewares 添加中间件，先添加的在外层
func WithMiddlewares(ms ...Middleware) DBOption {
	return func(db *DB) error {
		db.middlewares = append(db.middlewares, ms...)
		return nil
	}
}

// WithCache 使用给定缓存开启结果缓存
func WithCache(cache Cache, opts ...CacheManagerOption) DBOption {
	return func(db *DB) error {
		db.cacheManager = NewCacheManager(cache, opts...)
		return nil
	}
}

// WithCacheManager 使用已有的缓存管理器
func WithCacheManager(cm *CacheManager) DBOption {
	return func(db *DB) error {
		db.cacheManager = cm
		return nil
	}
}

// buildHandler 中间件顺序：用户中间件、缓存、调试日志、执行器
func (db *DB) buildHandler() {
	ms := make([]Middleware, 0, len(db.middlewares)+2)
	ms = append(ms, db.middlewares...)
	if db.cacheManager != nil {
		ms = append(ms, CacheMiddleware(db.cacheManager, db.logger))
	}
	if db.debug {
		ms = append(ms, DebugMiddleware(db.logger))
	}

	db.mu.Lock()
	db.handler = BuildChain(NewCoreHandler(db.executor), ms)
	db.mu.Unlock()
}

// Use 添加中间件
func (db *DB) Use(ms ...Middleware) {
	db.mu.Lock()
	db.middlewares = append(db.middlewares, ms...)
	db.mu.Unlock()
	db.buildHandler()
}

func (db *DB) getHandler() Handler {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.handler
}

// handle 执行一条语句
func (db *DB) handle(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	if db.closed.Load() {
		return nil, ferr.ErrDBClosed
	}
	res, err := db.getHandler().QueryHandler(ctx, qc)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ferr.ErrNoResult
	}
	return res, nil
}

// Dialect 返回连接使用的方言
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// CacheManager 未开启缓存时返回 nil
func (db *DB) CacheManager() *CacheManager {
	return db.cacheManager
}

// Model 绑定一张表，schema 可以为 nil
func (db *DB) Model(table string, schema *Schema) *Model {
	return &Model{
		db:     db,
		table:  table,
		schema: schema,
	}
}

// Close 关闭数据库，重复调用返回 nil
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c, ok := db.executor.(io.Closer); ok {
		return c.Close()
	}
	if db.sqlDB != nil {
		return db.sqlDB.Close()
	}
	return nil
}
