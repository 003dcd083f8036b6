package nosql

import (
	"context"
	"errors"

	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// CacheMiddleware 缓存 find 和 count 的结果，写操作成功后按表失效
// 缓存本身的错误只记录日志，不影响语句执行
//
// 查询执行期间表被失效时结果不会写入缓存。
// 失效发生在检查之后、写入缓存之前的极短窗口内时，旧结果仍可能保留到 TTL 过期。
func CacheMiddleware(cm *CacheManager, l logger.Logger) Middleware {
	if l == nil {
		l = logger.Nop()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
			if cm == nil || !cm.IsEnabled() {
				return next.QueryHandler(ctx, qc)
			}

			switch qc.Operation {
			case OperationInsert, OperationUpdate, OperationRemove:
				res, err := next.QueryHandler(ctx, qc)
				if err != nil {
					return res, err
				}
				if ierr := cm.Invalidate(ctx, qc.Table); ierr != nil {
					l.Warn("nosql: cache invalidate failed", logger.String("table", qc.Table), logger.Err(ierr))
				}
				return res, nil
			}

			if !cm.ShouldCache(qc) {
				return next.QueryHandler(ctx, qc)
			}
			key := cm.GenerateKey(qc)
			if key == "" {
				return next.QueryHandler(ctx, qc)
			}

			rows, err := cm.cache.Get(ctx, key)
			if err == nil {
				return &QueryResult{Rows: rows, Cached: true}, nil
			}
			if !errors.Is(err, ferr.ErrCacheMiss) {
				l.Warn("nosql: cache get failed", logger.String("key", key), logger.Err(err))
			}

			gen := cm.Generation(qc.Table)
			res, err := next.QueryHandler(ctx, qc)
			if err != nil || res == nil {
				return res, err
			}
			if cm.Generation(qc.Table) != gen {
				return res, nil
			}
			if serr := cm.cache.Set(ctx, key, res.Rows, cm.TTL(qc.Table), cm.Tags(qc.Table)...); serr != nil {
				l.Warn("nosql: cache set failed", logger.String("key", key), logger.Err(serr))
			}
			return res, nil
		})
	}
}
