package recovery

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql"
)

// PanicError 由处理链中的 panic 转换而来
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("nosql: panic while handling statement: %v", e.Value)
}

// Recovery 返回一个恢复 panic 并将其转换为错误的中间件
func Recovery(l logger.Logger) nosql.Middleware {
	if l == nil {
		l = logger.Default()
	}
	return func(next nosql.Handler) nosql.Handler {
		return nosql.HandlerFunc(func(ctx context.Context, qc *nosql.QueryContext) (res *nosql.QueryResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					// 获取调用栈
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					lines := strings.Split(string(buf[:n]), "\n")
					if len(lines) > 6 {
						lines = lines[:6]
					}
					stack := strings.Join(lines, "\n")

					l.Error("nosql: recovered panic",
						logger.String("operation", qc.Operation),
						logger.String("table", qc.Table),
						logger.Any("panic", r),
						logger.String("stack", stack))

					err = &PanicError{Value: r, Stack: stack}
					res = &nosql.QueryResult{Err: err}
				}
			}()

			return next.QueryHandler(ctx, qc)
		})
	}
}
