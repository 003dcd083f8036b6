package nosql

import (
	"context"
	"database/sql"

	"github.com/fyerfyer/fyer-kit/pool"
)

// Executor 执行编译好的语句，调用方只通过它访问数据库
type Executor interface {
	// QueryContext 执行查询并读出所有行
	QueryContext(ctx context.Context, query string, args ...any) ([]Row, error)
	// ExecContext 执行写操作
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLExecutor 基于 database/sql 的执行器
// 配置了连接池时每条语句都会获取并归还一个连接
type SQLExecutor struct {
	sqlDB  *sql.DB
	pooled *PooledDB
}

func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{sqlDB: db}
}

// NewPooledExecutor 使用连接池创建执行器
func NewPooledExecutor(pdb *PooledDB) *SQLExecutor {
	return &SQLExecutor{
		sqlDB:  pdb.sqlDB,
		pooled: pdb,
	}
}

func (e *SQLExecutor) acquire(ctx context.Context) (*sql.DB, pool.Connection, error) {
	if e.pooled != nil && e.pooled.IsPooled() {
		return e.pooled.GetConn(ctx)
	}
	return e.sqlDB, nil, nil
}

func (e *SQLExecutor) release(conn pool.Connection, err error) {
	if e.pooled != nil {
		e.pooled.PutConn(conn, err)
	}
}

func (e *SQLExecutor) QueryContext(ctx context.Context, query string, args ...any) ([]Row, error) {
	sqlDB, conn, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		e.release(conn, err)
		return nil, err
	}

	// 读完全部数据后再归还连接
	res, err := readRows(rows)
	e.release(conn, err)
	return res, err
}

func (e *SQLExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	sqlDB, conn, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}

	res, err := sqlDB.ExecContext(ctx, query, args...)
	e.release(conn, err)
	return res, err
}

// Close 关闭连接池和底层数据库
func (e *SQLExecutor) Close() error {
	if e.pooled != nil {
		return e.pooled.Close()
	}
	return e.sqlDB.Close()
}

// readRows 读取全部行，[]byte 转换为 string
func readRows(rows *sql.Rows) ([]Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	res := make([]Row, 0, 8)
	for rows.Next() {
		if err = rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				row[col] = string(v)
			default:
				row[col] = v
			}
		}
		res = append(res, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
