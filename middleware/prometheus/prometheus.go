package prometheus

import (
	"context"
	"time"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/prometheus/client_golang/prometheus"
)

// MiddlewareBuilder 统计每条语句的执行耗时
type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	// Registerer 为空时注册到 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (m *MiddlewareBuilder) Build() nosql.Middleware {
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: m.Namespace,
		Subsystem: m.Subsystem,
		Name:      m.Name,
		Help:      m.Help,
		Objectives: map[float64]float64{
			0.5:   0.05,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"operation", "table", "status"})

	reg := m.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(vec)

	return func(next nosql.Handler) nosql.Handler {
		return nosql.HandlerFunc(func(ctx context.Context, qc *nosql.QueryContext) (*nosql.QueryResult, error) {
			startTime := time.Now()
			res, err := next.QueryHandler(ctx, qc)

			status := "ok"
			switch {
			case err != nil:
				status = "error"
			case res != nil && res.Cached:
				status = "cached"
			}
			vec.WithLabelValues(qc.Operation, qc.Table, status).
				Observe(float64(time.Since(startTime).Microseconds()))
			return res, err
		})
	}
}
