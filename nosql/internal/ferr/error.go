package ferr

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows            = errors.New("nosql: data not found")
	ErrInsertRowNotFound = errors.New("nosql: insert returned no row")
	ErrEmptyInsert       = errors.New("nosql: insert with no fields")
	ErrEmptyUpdate       = errors.New("nosql: update with no set or inc fields")
	ErrEmptyTable        = errors.New("nosql: table name is empty")
	ErrNoResult          = errors.New("nosql: statement produced no result")
)

var (
	ErrInvalidConnection = errors.New("nosql: invalid database connection")
	ErrDBClosed          = errors.New("nosql: operation on a closed database")
)

var (
	// ErrCacheMiss 缓存中没有找到对应的键
	ErrCacheMiss = errors.New("nosql: cache miss")
	// ErrCacheDisabled 缓存功能被禁用
	ErrCacheDisabled = errors.New("nosql: cache is disabled")
)

func ErrInvalidDialect(v any) error {
	return fmt.Errorf("nosql: unsupported database schema: %v", v)
}

func ErrUnknownQueryType(v string) error {
	return fmt.Errorf("nosql: unknown query type: %s", v)
}

func ErrInvalidDocument(v any) error {
	return fmt.Errorf("nosql: invalid document: %T", v)
}

func ErrInvalidCount(v any) error {
	return fmt.Errorf("nosql: invalid count value: %v (%T)", v, v)
}

// ErrHealthCheckFailed 可以用 errors.Is 匹配 ErrInvalidConnection
func ErrHealthCheckFailed(reason string) error {
	return fmt.Errorf("nosql: connection health check failed: %s: %w", reason, ErrInvalidConnection)
}

func ErrCreateConnectionFailed(err error) error {
	return fmt.Errorf("nosql: failed to create database connection: %w", err)
}
