package nosql

import (
	"strings"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Updater 编译 update 语句
type Updater struct {
	dialect Dialect
	table   string
	where   any
	update  any
	ret     string
}

func NewUpdater(dialect Dialect, table string, where any, update any) *Updater {
	return &Updater{
		dialect: dialect,
		table:   table,
		where:   where,
		update:  update,
	}
}

// Returning 设置需要返回的列，只在支持 RETURNING 的方言上生效
func (u *Updater) Returning(col string) *Updater {
	u.ret = col
	return u
}

func (u *Updater) Build() (*Statement, error) {
	if u.table == "" {
		return nil, ferr.ErrEmptyTable
	}
	inc, set, err := splitUpdate(u.update)
	if err != nil {
		return nil, err
	}
	if len(inc)+len(set) == 0 {
		return nil, ferr.ErrEmptyUpdate
	}

	builder := &strings.Builder{}
	args := make([]any, 0, len(inc)+len(set))

	builder.WriteString("UPDATE ")
	builder.WriteString(u.dialect.Quote(u.table))
	builder.WriteString(" SET ")

	// $inc 在前，$set 在后
	cnt := 0
	for _, e := range inc {
		if cnt > 0 {
			builder.WriteString(", ")
		}
		col := u.dialect.Quote(e.Key)
		args = append(args, e.Value)
		builder.WriteString(col)
		builder.WriteString(" = ")
		builder.WriteString(col)
		builder.WriteString(" + ")
		builder.WriteString(u.dialect.Placeholder(len(args)))
		cnt++
	}
	for _, e := range set {
		if cnt > 0 {
			builder.WriteString(", ")
		}
		args = append(args, e.Value)
		builder.WriteString(u.dialect.Quote(e.Key))
		builder.WriteString(" = ")
		builder.WriteString(u.dialect.Placeholder(len(args)))
		cnt++
	}

	// where 子句沿用同一个占位符计数
	clause, err := CompileWhere(u.dialect, u.where, len(args))
	if err != nil {
		return nil, err
	}
	writeWhere(builder, clause)
	args = append(args, clause.Args...)

	if u.ret != "" && u.dialect.SupportsReturning() {
		builder.WriteString(" RETURNING ")
		builder.WriteString(u.dialect.Quote(u.ret))
	}

	return &Statement{
		SQL:  builder.String(),
		Args: args,
	}, nil
}

// splitUpdate 把更新文档拆成 $inc 和 $set 两部分
// 没有 $set 时整个文档作为 $set，以 $ 开头的键都会被跳过
func splitUpdate(update any) ([]E, []E, error) {
	es, ok := entries(update)
	if !ok {
		return nil, nil, ferr.ErrInvalidDocument(update)
	}

	var incVal, setVal any
	for _, e := range es {
		switch e.Key {
		case keyInc:
			incVal = e.Value
		case keySet:
			setVal = e.Value
		}
	}

	var inc []E
	if incVal != nil {
		inc, ok = entries(incVal)
		if !ok {
			return nil, nil, ferr.ErrInvalidDocument(incVal)
		}
	}

	setEntries := es
	if setVal != nil {
		setEntries, ok = entries(setVal)
		if !ok {
			return nil, nil, ferr.ErrInvalidDocument(setVal)
		}
	}

	set := make([]E, 0, len(setEntries))
	for _, e := range setEntries {
		if strings.HasPrefix(e.Key, "$") {
			continue
		}
		set = append(set, e)
	}
	return inc, set, nil
}
