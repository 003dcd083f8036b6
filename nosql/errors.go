package nosql

import "github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"

// 导出的错误，调用方使用 errors.Is 判断
var (
	ErrNoRows            = ferr.ErrNoRows
	ErrInsertRowNotFound = ferr.ErrInsertRowNotFound
	ErrEmptyInsert       = ferr.ErrEmptyInsert
	ErrEmptyUpdate       = ferr.ErrEmptyUpdate
	ErrEmptyTable        = ferr.ErrEmptyTable
	ErrNoResult          = ferr.ErrNoResult
	ErrInvalidConnection = ferr.ErrInvalidConnection
	ErrDBClosed          = ferr.ErrDBClosed
	ErrCacheMiss         = ferr.ErrCacheMiss
	ErrCacheDisabled     = ferr.ErrCacheDisabled
)
