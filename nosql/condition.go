package nosql

import (
	"regexp"
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Clause 是 where 子句的编译结果，SQL 不包含 WHERE 关键字
// len(Args) 即消耗的占位符数量
type Clause struct {
	SQL   string
	Args  []any
	Terms int // 顶层 AND 项的数量
}

// term 是 AND 列表中的一项
type term struct {
	sql string
	// group 表示多分支的 OR 组，拼进 AND 列表时需要加括号
	group bool
}

// CompileWhere 编译查询文档，占位符编号从 offset+1 开始
func CompileWhere(dialect Dialect, doc any, offset int) (Clause, error) {
	terms, args, err := compileAnd(dialect, doc, offset)
	if err != nil {
		return Clause{}, err
	}

	// 整个表达式只有一个 OR 组时不需要外层括号
	var sql string
	if len(terms) == 1 && terms[0].group {
		sql = terms[0].sql
	} else {
		sql = joinAnd(terms)
	}
	return Clause{
		SQL:   sql,
		Args:  args,
		Terms: len(terms),
	}, nil
}

// writeWhere 在 clause 非空时写入 WHERE 子句
func writeWhere(builder *strings.Builder, clause Clause) {
	if clause.SQL == "" {
		return
	}
	builder.WriteString(" WHERE ")
	builder.WriteString(clause.SQL)
}

func joinAnd(terms []term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.group {
			parts = append(parts, "("+t.sql+")")
		} else {
			parts = append(parts, t.sql)
		}
	}
	return strings.Join(parts, " AND ")
}

// compileAnd 把文档编译为 AND 项列表
// 每一层返回自己消耗的参数，调用方据此推进占位符编号
func compileAnd(dialect Dialect, doc any, offset int) ([]term, []any, error) {
	es, ok := entries(doc)
	if !ok {
		return nil, nil, ferr.ErrInvalidDocument(doc)
	}

	var (
		terms []term
		args  []any
	)
	for _, e := range es {
		switch {
		case e.Key == keyOr:
			t, a, ok, err := compileOr(dialect, e.Value, offset+len(args))
			if err != nil {
				return nil, nil, err
			}
			if ok {
				terms = append(terms, t)
				args = append(args, a...)
			}
		case isDocument(e.Value):
			ts, a := compileOps(dialect, dialect.Quote(e.Key), e.Value, offset+len(args))
			terms = append(terms, ts...)
			args = append(args, a...)
		default:
			t, a := compileCompare(dialect, dialect.Quote(e.Key), opEQ, e.Value, offset+len(args))
			terms = append(terms, t)
			args = append(args, a...)
		}
	}
	return terms, args, nil
}

// compileOr 编译 $or，每个分支是一个 AND 组
func compileOr(dialect Dialect, value any, offset int) (term, []any, bool, error) {
	items, ok := sequence(value)
	if !ok {
		return term{}, nil, false, ferr.ErrInvalidDocument(value)
	}

	var (
		branches [][]term
		args     []any
	)
	for _, item := range items {
		ts, a, err := compileAnd(dialect, item, offset+len(args))
		if err != nil {
			return term{}, nil, false, err
		}
		if len(ts) == 0 {
			continue
		}
		branches = append(branches, ts)
		args = append(args, a...)
	}

	switch len(branches) {
	case 0:
		return term{}, nil, false, nil
	case 1:
		// 单分支不引入括号，AND 嵌在 AND 里语义不变
		if len(branches[0]) == 1 {
			return branches[0][0], args, true, nil
		}
		return term{sql: joinAnd(branches[0])}, args, true, nil
	}

	parts := make([]string, 0, len(branches))
	for _, ts := range branches {
		if len(ts) > 1 {
			parts = append(parts, "("+joinAnd(ts)+")")
		} else {
			parts = append(parts, joinAnd(ts))
		}
	}
	return term{sql: strings.Join(parts, " OR "), group: true}, args, true, nil
}

// compileOps 编译操作符对象，未知操作符直接忽略
func compileOps(dialect Dialect, col string, value any, offset int) ([]term, []any) {
	es, _ := entries(value)

	var (
		terms []term
		args  []any
	)
	for _, e := range es {
		op, ok := lookupOp(e.Key)
		if !ok {
			continue
		}

		var (
			t term
			a []any
		)
		switch op.Type {
		case OpBinary:
			t, a = compileCompare(dialect, col, op, e.Value, offset+len(args))
		case OpList:
			t, a = compileList(dialect, col, op, e.Value, offset+len(args))
		case OpRegex:
			t, a = compileRegex(dialect, col, e.Value, offset+len(args))
		}
		terms = append(terms, t)
		args = append(args, a...)
	}
	return terms, args
}

func compileCompare(dialect Dialect, col string, op Op, value any, offset int) (term, []any) {
	if value == nil && op.Null != "" {
		return term{sql: col + " " + op.Null}, nil
	}
	return term{sql: col + " " + op.Keyword + " " + dialect.Placeholder(offset+1)}, []any{value}
}

// compileList 编译 $in / $nin，非数组的值按单元素列表处理
func compileList(dialect Dialect, col string, op Op, value any, offset int) (term, []any) {
	items, ok := sequence(value)
	if !ok {
		items = []any{value}
	}

	switch len(items) {
	case 0:
		return term{sql: op.Empty}, nil
	case 1:
		single, _ := lookupOp(op.Single)
		return compileCompare(dialect, col, single, items[0], offset)
	}

	var builder strings.Builder
	builder.WriteString(col)
	builder.WriteString(" ")
	builder.WriteString(op.Keyword)
	builder.WriteString(" (")
	for i := range items {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(dialect.Placeholder(offset + i + 1))
	}
	builder.WriteString(")")
	return term{sql: builder.String()}, items
}

// compileRegex 正则表达式作为参数绑定，不拼接进 SQL
func compileRegex(dialect Dialect, col string, value any, offset int) (term, []any) {
	pattern := value
	if re, ok := value.(*regexp.Regexp); ok {
		pattern = re.String()
	}
	return term{sql: dialect.Regex(col, dialect.Placeholder(offset+1))}, []any{pattern}
}
