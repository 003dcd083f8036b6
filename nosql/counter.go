package nosql

import (
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
	"github.com/spf13/cast"
)

// countColumn 计数结果的列别名
const countColumn = "count"

// Counter 编译 count 语句
type Counter struct {
	dialect Dialect
	table   string
	where   any
}

func NewCounter(dialect Dialect, table string, where any) *Counter {
	return &Counter{
		dialect: dialect,
		table:   table,
		where:   where,
	}
}

func (c *Counter) Build() (*Statement, error) {
	if c.table == "" {
		return nil, ferr.ErrEmptyTable
	}

	builder := &strings.Builder{}
	builder.WriteString("SELECT COUNT(*) AS ")
	builder.WriteString(countColumn)
	builder.WriteString(" FROM ")
	builder.WriteString(c.dialect.Quote(c.table))

	clause, err := CompileWhere(c.dialect, c.where, 0)
	if err != nil {
		return nil, err
	}
	writeWhere(builder, clause)

	return &Statement{
		SQL:  builder.String(),
		Args: clause.Args,
	}, nil
}

// countOf 从结果行中取出计数并转换成 int64
// 部分驱动会把 COUNT 的结果作为字符串返回
func countOf(rows []Row) (int64, error) {
	if len(rows) == 0 {
		return 0, ferr.ErrNoRows
	}
	row := rows[0]
	v, ok := row[countColumn]
	if !ok {
		for _, val := range row {
			v = val
			break
		}
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, ferr.ErrInvalidCount(v)
	}
	return n, nil
}
