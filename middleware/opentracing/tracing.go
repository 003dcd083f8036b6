package opentracing

import (
	"context"

	"github.com/fyerfyer/fyer-nosql/nosql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

var defaultInstrumentationName = "github.com/fyerfyer/fyer-nosql/middleware/opentracing"

func (m *MiddlewareBuilder) Build() nosql.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(defaultInstrumentationName)
	}

	return func(next nosql.Handler) nosql.Handler {
		return nosql.HandlerFunc(func(ctx context.Context, qc *nosql.QueryContext) (*nosql.QueryResult, error) {
			ctx, span := m.Tracer.Start(ctx, "nosql."+qc.Operation, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(attribute.String("db.operation", qc.Operation))
			span.SetAttributes(attribute.String("db.sql.table", qc.Table))
			if qc.Dialect != nil {
				span.SetAttributes(attribute.String("db.system", qc.Dialect.Name()))
			}
			if qc.Statement != nil {
				span.SetAttributes(attribute.String("db.statement", qc.Statement.SQL))
				span.SetAttributes(attribute.Int("db.args", len(qc.Statement.Args)))
			}

			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return res, err
			}
			if res != nil {
				span.SetAttributes(attribute.Bool("nosql.cached", res.Cached))
				if res.Rows != nil {
					span.SetAttributes(attribute.Int("db.rows", len(res.Rows)))
				}
			}
			return res, nil
		})
	}
}
