package nosql

import (
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Deleter 编译 remove 语句
type Deleter struct {
	dialect Dialect
	table   string
	where   any
}

func NewDeleter(dialect Dialect, table string, where any) *Deleter {
	return &Deleter{
		dialect: dialect,
		table:   table,
		where:   where,
	}
}

func (d *Deleter) Build() (*Statement, error) {
	if d.table == "" {
		return nil, ferr.ErrEmptyTable
	}

	builder := &strings.Builder{}
	builder.WriteString("DELETE FROM ")
	builder.WriteString(d.dialect.Quote(d.table))

	clause, err := CompileWhere(d.dialect, d.where, 0)
	if err != nil {
		return nil, err
	}
	writeWhere(builder, clause)

	return &Statement{
		SQL:  builder.String(),
		Args: clause.Args,
	}, nil
}
