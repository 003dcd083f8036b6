package prometheus

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareBuilder_Build(t *testing.T) {
	reg := prometheus.NewRegistry()
	builder := &MiddlewareBuilder{
		Namespace:  "nosql",
		Subsystem:  "db",
		Name:       "statement_duration",
		Help:       "statement duration in microseconds",
		Registerer: reg,
	}

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := nosql.Open(sqlDB, "mysql",
		nosql.WithLogger(logger.Nop()),
		nosql.WithMiddlewares(builder.Build()))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT COUNT(*) AS count FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectExec("DELETE FROM `users`").
		WillReturnError(assert.AnError)

	ctx := context.Background()
	n, err := db.Model("users", nil).Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = db.Model("users", nil).Remove(ctx, nil)
	assert.Error(t, err)

	cnt, err := testutil.GatherAndCount(reg, "nosql_db_statement_duration")
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	assert.NoError(t, mock.ExpectationsWereMet())
}
