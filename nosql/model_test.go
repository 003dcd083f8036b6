package nosql

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fyerfyer/fyer-nosql/logger"
	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T, dialect string, opts ...DBOption) (*DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	opts = append([]DBOption{WithLogger(logger.Nop())}, opts...)
	db, err := Open(sqlDB, dialect, opts...)
	require.NoError(t, err)
	return db, mock
}

func TestModel_Find(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	users := db.Model("users", NewSchema(
		Field{Key: "id", Type: Number},
		Field{Key: "name", Type: String},
	))

	mock.ExpectQuery("SELECT `id`, `name` FROM `users` WHERE `age` > ? ORDER BY `id` DESC LIMIT ? OFFSET ?").
		WithArgs(18, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("1", []byte("tom")).
			AddRow(int64(2), "jerry"))

	rows, err := users.Find(D{{"age", D{{"$gt", 18}}}}, []string{"id", "name"}).
		Sort(D{{"id", -1}}).
		Skip(0).
		Limit(10).
		Exec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"id": int64(1), "name": "tom"},
		{"id": int64(2), "name": "jerry"},
	}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_FindError(t *testing.T) {
	db, mock := newMockDB(t, "pgsql")
	boom := errors.New("boom")
	mock.ExpectQuery(`SELECT * FROM "users"`).WillReturnError(boom)

	_, err := db.Model("users", nil).FindAll(context.Background(), nil)
	assert.Equal(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_FindAsync(t *testing.T) {
	db, mock := newMockDB(t, "pgsql")
	mock.ExpectQuery(`SELECT * FROM "users" WHERE "id" = $1 LIMIT $2`).
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	done := make(chan struct{})
	var (
		rows []Row
		err  error
	)
	db.Model("users", nil).Find(M{"id": 3}).Limit(1).ExecAsync(context.Background(), func(r []Row, e error) {
		rows, err = r, e
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback not called")
	}
	require.NoError(t, err)
	assert.Equal(t, []Row{{"id": int64(3)}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_Build(t *testing.T) {
	db, _ := newMockDB(t, "pgsql")
	stmt, err := db.Model("t", nil).Find(M{"a": 1}).Select(M{"a": 1}).Limit(1).Skip(0).Build()
	require.NoError(t, err)
	assert.Equal(t, &Statement{
		SQL:  `SELECT "a" FROM "t" WHERE "a" = $1 LIMIT $2 OFFSET $3`,
		Args: []any{1, 1, 0},
	}, stmt)
}

func TestModel_Insert(t *testing.T) {
	testCases := []struct {
		name    string
		dialect string
		fields  any
		opts    []InsertOption
		mock    func(mock sqlmock.Sqlmock)
		want    Row
		wantErr error
	}{
		{
			name:    "postgresql returning",
			dialect: "pgsql",
			fields:  M{"a": 1, "b": 2},
			opts:    []InsertOption{WithID("a")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "t" ("a", "b") VALUES ($1, $2) RETURNING "a"`).
					WithArgs(1, 2).
					WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow("1"))
			},
			want: Row{"a": int64(1)},
		},
		{
			name:    "postgresql no returned row",
			dialect: "pgsql",
			fields:  M{"a": 1},
			opts:    []InsertOption{WithID("id")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "t" ("a") VALUES ($1) RETURNING "id"`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantErr: ferr.ErrInsertRowNotFound,
		},
		{
			name:    "mysql last insert id",
			dialect: "mysql",
			fields:  D{{"name", "tom"}},
			opts:    []InsertOption{WithID("id")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `t` (`name`) VALUES (?)").
					WithArgs("tom").
					WillReturnResult(sqlmock.NewResult(10, 1))
			},
			want: Row{"id": int64(10)},
		},
		{
			name:    "without id",
			dialect: "mysql",
			fields:  D{{"name", "tom"}},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `t` (`name`) VALUES (?)").
					WithArgs("tom").
					WillReturnResult(sqlmock.NewResult(10, 1))
			},
		},
		{
			name:    "empty fields",
			dialect: "mysql",
			fields:  M{},
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: ferr.ErrEmptyInsert,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, tc.dialect)
			tc.mock(mock)

			row, err := db.Model("t", NewSchema(Field{Key: "a", Type: Number})).
				Insert(context.Background(), tc.fields, tc.opts...)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.want, row)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestModel_Update(t *testing.T) {
	testCases := []struct {
		name      string
		dialect   string
		query     any
		update    any
		opts      []UpdateOption
		mock      func(mock sqlmock.Sqlmock)
		wantCount int64
		wantRow   Row
		wantErr   error
	}{
		{
			name:    "set and inc",
			dialect: "mysql",
			query:   D{{"id", 1}},
			update:  D{{"$set", D{{"k", "v"}}}, {"$inc", D{{"n", 2}}}},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE `t` SET `n` = `n` + ?, `k` = ? WHERE `id` = ?").
					WithArgs(2, "v", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantCount: 1,
		},
		{
			name:    "zero rows",
			dialect: "pgsql",
			query:   D{{"id", 404}},
			update:  D{{"a", 1}},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE "t" SET "a" = $1 WHERE "id" = $2`).
					WithArgs(1, 404).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCount: 0,
		},
		{
			name:    "postgresql returning",
			dialect: "pgsql",
			query:   D{{"a", D{{"$lt", 5}}}},
			update:  D{{"$inc", D{{"a", 1}}}},
			opts:    []UpdateOption{WithReturn("a")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE "t" SET "a" = "a" + $1 WHERE "a" < $2 RETURNING "a"`).
					WithArgs(1, 5).
					WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow("2").AddRow("3"))
			},
			wantCount: 2,
			wantRow:   Row{"a": int64(2)},
		},
		{
			name:    "postgresql returning nothing",
			dialect: "pgsql",
			update:  D{{"a", 1}},
			opts:    []UpdateOption{WithReturn("a")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE "t" SET "a" = $1 RETURNING "a"`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"a"}))
			},
			wantCount: 0,
			wantRow:   Row{},
		},
		{
			name:    "mysql return unsupported",
			dialect: "mysql",
			update:  D{{"a", 1}},
			opts:    []UpdateOption{WithReturn("a")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE `t` SET `a` = ?").
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 4))
			},
			wantCount: 4,
			wantRow:   Row{},
		},
		{
			name:    "no set terms",
			dialect: "mysql",
			update:  D{{"$unset", D{{"a", 1}}}},
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: ferr.ErrEmptyUpdate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, tc.dialect)
			tc.mock(mock)

			n, row, err := db.Model("t", NewSchema(Field{Key: "a", Type: Number})).
				Update(context.Background(), tc.query, tc.update, tc.opts...)
			assert.Equal(t, tc.wantErr, err)
			assert.Equal(t, tc.wantCount, n)
			assert.Equal(t, tc.wantRow, row)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestModel_Remove(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	mock.ExpectExec("DELETE FROM `users` WHERE `id` IN (?, ?, ?)").
		WithArgs(1, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := db.Model("users", nil).Remove(context.Background(), M{"id": M{"$in": A{1, 2, 3}}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_Count(t *testing.T) {
	testCases := []struct {
		name    string
		dialect string
		value   any
		want    int64
	}{
		{name: "integer", dialect: "pgsql", value: int64(5), want: 5},
		{name: "string", dialect: "mysql", value: "42", want: 42},
		{name: "bytes", dialect: "mysql", value: []byte("8"), want: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t, tc.dialect)
			d, err := GetDialect(tc.dialect)
			require.NoError(t, err)

			mock.ExpectQuery("SELECT COUNT(*) AS count FROM " + d.Quote("t") + " WHERE " + d.Quote("a") + " = " + d.Placeholder(1)).
				WithArgs("x").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.value))

			n, err := db.Model("t", nil).Count(context.Background(), M{"a": "x"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_Close(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	mock.ExpectClose()

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err := db.Model("t", nil).Count(context.Background(), nil)
	assert.Equal(t, ferr.ErrDBClosed, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_InvalidDialect(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = Open(sqlDB, "oracle")
	assert.Error(t, err)

	_, err = Connect("sqlite", ConnParams{})
	assert.Error(t, err)
}

func TestDB_Middlewares(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(ctx context.Context, qc *QueryContext) (*QueryResult, error) {
				order = append(order, name+":"+qc.Operation)
				return next.QueryHandler(ctx, qc)
			})
		}
	}

	db, mock := newMockDB(t, "mysql", WithMiddlewares(record("first"), record("second")))
	db.Use(record("third"))

	mock.ExpectExec("DELETE FROM `t`").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err := db.Model("t", nil).Remove(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:remove", "second:remove", "third:remove"}, order)
}

func TestDB_Debug(t *testing.T) {
	buf := &bytes.Buffer{}
	db, mock := newMockDB(t, "pgsql", WithDebug(), WithLogger(logger.New(logger.WithOutput(buf))))

	mock.ExpectQuery(`SELECT * FROM "t" WHERE "a" = $1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"a"}))

	_, err := db.Model("t", nil).FindAll(context.Background(), M{"a": 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `SELECT * FROM \"t\" WHERE \"a\" = $1`)
	assert.Contains(t, buf.String(), `"operation":"find"`)
	assert.Contains(t, buf.String(), `"table":"t"`)
}
