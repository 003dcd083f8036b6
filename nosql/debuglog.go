package nosql

import (
	"context"
	"time"

	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/google/uuid"
)

// DebugMiddleware 在执行前输出编译后的语句
func DebugMiddleware(l logger.Logger) Middleware {
	if l == nil {
		l = logger.Default()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
			sl := l.With(
				logger.String("id", uuid.NewString()),
				logger.String("operation", qc.Operation),
				logger.String("table", qc.Table),
			)
			sl.Info("nosql: statement",
				logger.String("sql", qc.Statement.SQL),
				logger.Any("args", qc.Statement.Args),
			)

			start := time.Now()
			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				sl.Error("nosql: statement failed",
					logger.Duration("elapsed", time.Since(start)),
					logger.Err(err),
				)
				return res, err
			}
			sl.Debug("nosql: statement done",
				logger.Duration("elapsed", time.Since(start)),
				logger.Any("cached", res != nil && res.Cached),
			)
			return res, nil
		})
	}
}
