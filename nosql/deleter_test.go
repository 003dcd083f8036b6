package nosql

import (
	"testing"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
	"github.com/stretchr/testify/assert"
)

func TestDeleter_Build(t *testing.T) {
	testCases := []struct {
		name      string
		d         *Deleter
		wantQuery *Statement
		wantErr   error
	}{
		{
			name: "no where",
			d:    NewDeleter(&Mysql{}, "users", nil),
			wantQuery: &Statement{
				SQL: "DELETE FROM `users`",
			},
		},
		{
			name: "where",
			d:    NewDeleter(&Postgresql{}, "users", D{{"id", D{{"$lt", 10}}}, {"name", "x"}}),
			wantQuery: &Statement{
				SQL:  `DELETE FROM "users" WHERE "id" < $1 AND "name" = $2`,
				Args: []any{10, "x"},
			},
		},
		{
			name:    "empty table",
			d:       NewDeleter(&Mysql{}, "", nil),
			wantErr: ferr.ErrEmptyTable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.d.Build()
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}

func TestCounter_Build(t *testing.T) {
	testCases := []struct {
		name      string
		c         *Counter
		wantQuery *Statement
	}{
		{
			name: "no where",
			c:    NewCounter(&Mysql{}, "users", nil),
			wantQuery: &Statement{
				SQL: "SELECT COUNT(*) AS count FROM `users`",
			},
		},
		{
			name: "where",
			c:    NewCounter(&Postgresql{}, "users", M{"age": M{"$gt": 18}}),
			wantQuery: &Statement{
				SQL:  `SELECT COUNT(*) AS count FROM "users" WHERE "age" > $1`,
				Args: []any{18},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.c.Build()
			assert.NoError(t, err)
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}

func TestCountOf(t *testing.T) {
	testCases := []struct {
		name    string
		rows    []Row
		want    int64
		wantErr bool
	}{
		{name: "int64", rows: []Row{{"count": int64(3)}}, want: 3},
		{name: "string", rows: []Row{{"count": "42"}}, want: 42},
		{name: "bytes", rows: []Row{{"count": []byte("7")}}, want: 7},
		{name: "float", rows: []Row{{"count": 5.0}}, want: 5},
		{name: "other column name", rows: []Row{{"COUNT(*)": int64(9)}}, want: 9},
		{name: "no rows", rows: nil, wantErr: true},
		{name: "not a number", rows: []Row{{"count": "abc"}}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := countOf(tc.rows)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}
