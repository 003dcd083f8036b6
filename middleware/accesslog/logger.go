package accesslog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql"
)

type MiddlewareBuilder struct {
	logger func(content string)
}

type logInfo struct {
	Operation string `json:"operation"`
	Table     string `json:"table"`
	SQL       string `json:"sql"`
	Args      int    `json:"args"`
	Cached    bool   `json:"cached"`
	Elapsed   string `json:"elapsed"`
	Error     string `json:"error,omitempty"`
}

func (m *MiddlewareBuilder) SetLogger(logger func(content string)) *MiddlewareBuilder {
	m.logger = logger
	return m
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logger: func(content string) {
			logger.Default().Info(content)
		},
	}
}

func (m *MiddlewareBuilder) Build() nosql.Middleware {
	return func(next nosql.Handler) nosql.Handler {
		return nosql.HandlerFunc(func(ctx context.Context, qc *nosql.QueryContext) (*nosql.QueryResult, error) {
			startTime := time.Now()
			res, err := next.QueryHandler(ctx, qc)

			info := logInfo{
				Operation: qc.Operation,
				Table:     qc.Table,
				Elapsed:   time.Since(startTime).String(),
			}
			if qc.Statement != nil {
				info.SQL = qc.Statement.SQL
				info.Args = len(qc.Statement.Args)
			}
			if res != nil {
				info.Cached = res.Cached
			}
			if err != nil {
				info.Error = err.Error()
			}
			val, _ := json.Marshal(info)
			m.logger(string(val))
			return res, err
		})
	}
}
