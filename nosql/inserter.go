package nosql

import (
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Inserter 编译 insert 语句
type Inserter struct {
	dialect Dialect
	table   string
	fields  any
	id      string
}

func NewInserter(dialect Dialect, table string, fields any) *Inserter {
	return &Inserter{
		dialect: dialect,
		table:   table,
		fields:  fields,
	}
}

// ID 设置自增主键列，支持 RETURNING 的方言会追加 RETURNING 子句
func (i *Inserter) ID(col string) *Inserter {
	i.id = col
	return i
}

func (i *Inserter) Build() (*Statement, error) {
	if i.table == "" {
		return nil, ferr.ErrEmptyTable
	}
	es, ok := entries(i.fields)
	if !ok {
		return nil, ferr.ErrInvalidDocument(i.fields)
	}
	if len(es) == 0 {
		return nil, ferr.ErrEmptyInsert
	}

	builder := &strings.Builder{}
	args := make([]any, 0, len(es))

	builder.WriteString("INSERT INTO ")
	builder.WriteString(i.dialect.Quote(i.table))
	builder.WriteString(" (")
	for idx, e := range es {
		if idx > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(i.dialect.Quote(e.Key))
	}

	builder.WriteString(") VALUES (")
	for idx, e := range es {
		if idx > 0 {
			builder.WriteString(", ")
		}
		args = append(args, e.Value)
		builder.WriteString(i.dialect.Placeholder(len(args)))
	}
	builder.WriteString(")")

	if i.id != "" && i.dialect.SupportsReturning() {
		builder.WriteString(" RETURNING ")
		builder.WriteString(i.dialect.Quote(i.id))
	}

	return &Statement{
		SQL:  builder.String(),
		Args: args,
	}, nil
}
