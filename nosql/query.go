package nosql

import "context"

// Query 链式构建的查询，Exec 之前不会访问数据库
type Query struct {
	model  *Model
	query  any
	fields any
	sort   any
	offset int
	limit  int
}

// Select 设置投影
func (q *Query) Select(fields any) *Query {
	q.fields = fields
	return q
}

// Sort 设置排序
func (q *Query) Sort(sort any) *Query {
	q.sort = sort
	return q
}

// Skip 设置 OFFSET，负数表示不设置
func (q *Query) Skip(n int) *Query {
	q.offset = n
	return q
}

// Limit 负数表示不设置
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) selector() *Selector {
	return NewSelector(q.model.dialect(), q.model.table, q.query).
		Select(q.fields).
		Sort(q.sort).
		Offset(q.offset).
		Limit(q.limit)
}

// Build 只编译不执行
func (q *Query) Build() (*Statement, error) {
	return q.selector().Build()
}

// Exec 执行查询，结果经过 schema 转换
func (q *Query) Exec(ctx context.Context) ([]Row, error) {
	return q.model.find(ctx, q.selector())
}

// ExecAsync 在新的 goroutine 中执行查询，完成后调用 callback
func (q *Query) ExecAsync(ctx context.Context, callback func([]Row, error)) {
	s := q.selector()
	go func() {
		rows, err := q.model.find(ctx, s)
		if callback != nil {
			callback(rows, err)
		}
	}()
}
