package nosql

import (
	"context"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// 语句的执行方式
const (
	QueryTypeQuery = "query"
	QueryTypeExec  = "exec"
)

// 语句对应的公开操作
const (
	OperationFind   = "find"
	OperationInsert = "insert"
	OperationUpdate = "update"
	OperationRemove = "remove"
	OperationCount  = "count"
)

// Handler 处理器接口定义
type Handler interface {
	QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error)
}

// Middleware 中间件定义
type Middleware func(Handler) Handler

// HandlerFunc 用于将函数转换为 Handler 接口
type HandlerFunc func(ctx context.Context, qc *QueryContext) (*QueryResult, error)

func (h HandlerFunc) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	return h(ctx, qc)
}

// QueryContext 一条语句的执行上下文
type QueryContext struct {
	QueryType string
	Operation string
	Table     string
	Statement *Statement
	Builder   StatementBuilder
	Dialect   Dialect
}

// QueryResult 执行结果，查询类语句填充 Rows，写语句填充 Result
type QueryResult struct {
	Rows   []Row
	Result Result
	Err    error
	// Cached 表示结果来自缓存
	Cached bool
}

// BuildChain 构建处理器调用链，先添加的中间件在外层
func BuildChain(core Handler, ms []Middleware) Handler {
	h := core
	for i := len(ms) - 1; i >= 0; i-- {
		h = ms[i](h)
	}
	return h
}

// CoreHandler 调用链的最后一环，把语句交给执行器
type CoreHandler struct {
	executor Executor
}

func NewCoreHandler(executor Executor) *CoreHandler {
	return &CoreHandler{executor: executor}
}

func (c *CoreHandler) QueryHandler(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
	switch qc.QueryType {
	case QueryTypeQuery:
		rows, err := c.executor.QueryContext(ctx, qc.Statement.SQL, qc.Statement.Args...)
		return &QueryResult{
			Rows: rows,
			Err:  err,
		}, err
	case QueryTypeExec:
		res, err := c.executor.ExecContext(ctx, qc.Statement.SQL, qc.Statement.Args...)
		return &QueryResult{
			Result: NewResult(res, err),
			Err:    err,
		}, err
	default:
		return nil, ferr.ErrUnknownQueryType(qc.QueryType)
	}
}
