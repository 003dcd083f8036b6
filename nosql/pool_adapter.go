package nosql

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-kit/pool"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// sqlConn 是连接池中的一个连接槽，实际连接由 *sql.DB 管理
type sqlConn struct {
	db      *sql.DB
	lastUse time.Time
	mu      sync.RWMutex
	closed  bool
}

func (c *sqlConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *sqlConn) Raw() interface{} {
	return c.db
}

func (c *sqlConn) IsAlive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *sqlConn) ResetState() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUse = time.Now()
	c.closed = false
	return nil
}

// connFactory 为连接池创建连接槽
type connFactory struct {
	db          *sql.DB
	healthCheck func(*sql.DB) bool
}

func (f *connFactory) Create(ctx context.Context) (pool.Connection, error) {
	if f.db == nil {
		return nil, ferr.ErrCreateConnectionFailed(ferr.ErrDBClosed)
	}
	if f.healthCheck != nil && !f.healthCheck(f.db) {
		return nil, ferr.ErrCreateConnectionFailed(ferr.ErrHealthCheckFailed("ping failed"))
	}
	return &sqlConn{
		db:      f.db,
		lastUse: time.Now(),
	}, nil
}

// PooledDB 用 fyer-kit 连接池限制同时执行的语句数
type PooledDB struct {
	sqlDB  *sql.DB
	pool   pool.Pool
	pooled bool
	config *PoolConfig
}

// NewPooledDB config 为 nil 时不启用连接池
func NewPooledDB(sqlDB *sql.DB, config *PoolConfig) *PooledDB {
	if config == nil {
		return &PooledDB{sqlDB: sqlDB}
	}

	factory := &connFactory{
		db:          sqlDB,
		healthCheck: config.HealthCheck,
	}
	p := pool.NewPool(factory,
		pool.WithMaxIdle(config.MaxIdle),
		pool.WithMaxActive(config.MaxActive),
		pool.WithMaxIdleTime(config.MaxIdleTime),
		pool.WithMaxLifetime(config.MaxLifetime),
		pool.WithWaitTimeout(config.WaitTimeout),
		pool.WithDialTimeout(config.DialTimeout),
		pool.WithInitialSize(config.InitialSize),
	)

	return &PooledDB{
		sqlDB:  sqlDB,
		pool:   p,
		pooled: true,
		config: config,
	}
}

// NewPooledDBWithPool 使用已有的连接池
func NewPooledDBWithPool(sqlDB *sql.DB, p pool.Pool) *PooledDB {
	return &PooledDB{
		sqlDB:  sqlDB,
		pool:   p,
		pooled: p != nil,
	}
}

// GetConn 从池中获取连接
func (pdb *PooledDB) GetConn(ctx context.Context) (*sql.DB, pool.Connection, error) {
	if !pdb.pooled {
		return pdb.sqlDB, nil, nil
	}

	conn, err := pdb.pool.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	db, ok := conn.Raw().(*sql.DB)
	if !ok || db == nil {
		_ = pdb.pool.Put(conn, ferr.ErrInvalidConnection)
		return nil, nil, ferr.ErrInvalidConnection
	}
	return db, conn, nil
}

// PutConn 归还连接，err 非空时连接池会丢弃该连接
func (pdb *PooledDB) PutConn(conn pool.Connection, err error) {
	if conn == nil || !pdb.pooled {
		return
	}
	_ = pdb.pool.Put(conn, err)
}

// Close 关闭连接池后关闭数据库
func (pdb *PooledDB) Close() error {
	if pdb.pooled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pdb.pool.Shutdown(ctx); err != nil {
			return err
		}
	}
	if pdb.sqlDB == nil {
		return nil
	}
	return pdb.sqlDB.Close()
}

// Stats 返回连接池统计信息
func (pdb *PooledDB) Stats() pool.Stats {
	if !pdb.pooled {
		return pool.Stats{}
	}
	return pdb.pool.Stats()
}

func (pdb *PooledDB) IsPooled() bool {
	return pdb.pooled
}
