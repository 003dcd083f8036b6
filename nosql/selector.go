package nosql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Selector 编译 find 语句
type Selector struct {
	dialect Dialect
	table   string
	where   any
	fields  any
	sort    any
	offset  int
	limit   int
}

// NewSelector 创建查询构建器，offset 和 limit 默认不生效
func NewSelector(dialect Dialect, table string, where any) *Selector {
	return &Selector{
		dialect: dialect,
		table:   table,
		where:   where,
		offset:  -1,
		limit:   -1,
	}
}

// Select 设置投影，可以是列名数组或者 列名->是否选择 的文档
func (s *Selector) Select(fields any) *Selector {
	s.fields = fields
	return s
}

// Sort 设置排序，1 为升序，-1 为降序，其它值被忽略
func (s *Selector) Sort(sort any) *Selector {
	s.sort = sort
	return s
}

// Offset 负数表示不设置
func (s *Selector) Offset(num int) *Selector {
	s.offset = num
	return s
}

// Limit 负数表示不设置
func (s *Selector) Limit(num int) *Selector {
	s.limit = num
	return s
}

func (s *Selector) Build() (*Statement, error) {
	if s.table == "" {
		return nil, ferr.ErrEmptyTable
	}

	builder := &strings.Builder{}
	args := make([]any, 0, 4)

	builder.WriteString("SELECT ")
	cols, err := s.buildColumns()
	if err != nil {
		return nil, err
	}
	builder.WriteString(cols)
	builder.WriteString(" FROM ")
	builder.WriteString(s.dialect.Quote(s.table))

	clause, err := CompileWhere(s.dialect, s.where, len(args))
	if err != nil {
		return nil, err
	}
	writeWhere(builder, clause)
	args = append(args, clause.Args...)

	orders, err := s.buildOrderBy()
	if err != nil {
		return nil, err
	}
	if orders != "" {
		builder.WriteString(" ORDER BY ")
		builder.WriteString(orders)
	}

	if s.limit >= 0 {
		args = append(args, s.limit)
		builder.WriteString(" LIMIT ")
		builder.WriteString(s.dialect.Placeholder(len(args)))
	}
	if s.offset >= 0 {
		args = append(args, s.offset)
		builder.WriteString(" OFFSET ")
		builder.WriteString(s.dialect.Placeholder(len(args)))
	}

	return &Statement{
		SQL:  builder.String(),
		Args: args,
	}, nil
}

// buildColumns 构建查询列，没有可选列时退化为 *
func (s *Selector) buildColumns() (string, error) {
	if s.fields == nil {
		return "*", nil
	}

	var cols []string
	if items, ok := sequence(s.fields); ok {
		for _, item := range items {
			cols = append(cols, s.dialect.Quote(fmt.Sprint(item)))
		}
	} else if es, ok := entries(s.fields); ok {
		for _, e := range es {
			if truthy(e.Value) {
				cols = append(cols, s.dialect.Quote(e.Key))
			}
		}
	} else {
		return "", ferr.ErrInvalidDocument(s.fields)
	}

	if len(cols) == 0 {
		return "*", nil
	}
	return strings.Join(cols, ", "), nil
}

func (s *Selector) buildOrderBy() (string, error) {
	if s.sort == nil {
		return "", nil
	}
	es, ok := entries(s.sort)
	if !ok {
		return "", ferr.ErrInvalidDocument(s.sort)
	}

	orders := make([]string, 0, len(es))
	for _, e := range es {
		switch direction(e.Value) {
		case 1:
			orders = append(orders, s.dialect.Quote(e.Key)+" ASC")
		case -1:
			orders = append(orders, s.dialect.Quote(e.Key)+" DESC")
		}
	}
	return strings.Join(orders, ", "), nil
}

// direction 解析排序方向，只接受数值 1 和 -1
func direction(v any) int {
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := val.Int(); n == 1 || n == -1 {
			return int(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if val.Uint() == 1 {
			return 1
		}
	case reflect.Float32, reflect.Float64:
		if f := val.Float(); f == 1 || f == -1 {
			return int(f)
		}
	}
	return 0
}

// truthy 判断投影中的标记是否表示选择该列
func truthy(v any) bool {
	if v == nil {
		return false
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return val.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		return f != 0 && f == f
	case reflect.String:
		return val.String() != ""
	}
	return true
}
