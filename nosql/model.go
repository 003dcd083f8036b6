package nosql

import (
	"context"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Model 绑定到一张表，所有操作都只执行一条语句
type Model struct {
	db     *DB
	table  string
	schema *Schema
}

func (m *Model) Table() string {
	return m.table
}

func (m *Model) Schema() *Schema {
	return m.schema
}

func (m *Model) dialect() Dialect {
	return m.db.dialect
}

// Find 创建查询，projection 可选
func (m *Model) Find(query any, projection ...any) *Query {
	q := &Query{
		model:  m,
		query:  query,
		offset: -1,
		limit:  -1,
	}
	if len(projection) > 0 {
		q.fields = projection[0]
	}
	return q
}

// FindAll 直接执行查询
func (m *Model) FindAll(ctx context.Context, query any, projection ...any) ([]Row, error) {
	return m.Find(query, projection...).Exec(ctx)
}

func (m *Model) find(ctx context.Context, s *Selector) ([]Row, error) {
	stmt, err := s.Build()
	if err != nil {
		return nil, err
	}
	res, err := m.db.handle(ctx, m.queryContext(QueryTypeQuery, OperationFind, stmt, s))
	if err != nil {
		return nil, err
	}
	return m.schema.RebuildAll(res.Rows), nil
}

// Insert 插入一行，没有 WithID 时返回 nil
func (m *Model) Insert(ctx context.Context, fields any, opts ...InsertOption) (Row, error) {
	o := &insertOptions{}
	for _, opt := range opts {
		opt(o)
	}

	ins := NewInserter(m.dialect(), m.table, fields)
	if o.id != "" {
		ins.ID(o.id)
	}
	stmt, err := ins.Build()
	if err != nil {
		return nil, err
	}

	if o.id == "" {
		_, err = m.db.handle(ctx, m.queryContext(QueryTypeExec, OperationInsert, stmt, ins))
		return nil, err
	}

	if m.dialect().SupportsReturning() {
		res, err := m.db.handle(ctx, m.queryContext(QueryTypeQuery, OperationInsert, stmt, ins))
		if err != nil {
			return nil, err
		}
		if len(res.Rows) == 0 {
			return nil, ferr.ErrInsertRowNotFound
		}
		return m.schema.Rebuild(res.Rows[0]), nil
	}

	res, err := m.db.handle(ctx, m.queryContext(QueryTypeExec, OperationInsert, stmt, ins))
	if err != nil {
		return nil, err
	}
	id, err := res.Result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return m.schema.Rebuild(Row{o.id: id}), nil
}

// Update 返回受影响的行数
// 指定 WithReturn 时第二个返回值为更新后的第一行，方言不支持 RETURNING 时为空 Row
func (m *Model) Update(ctx context.Context, query any, update any, opts ...UpdateOption) (int64, Row, error) {
	o := &updateOptions{}
	for _, opt := range opts {
		opt(o)
	}

	up := NewUpdater(m.dialect(), m.table, query, update)
	if o.ret != "" {
		up.Returning(o.ret)
	}
	stmt, err := up.Build()
	if err != nil {
		return 0, nil, err
	}

	if o.ret != "" && m.dialect().SupportsReturning() {
		res, err := m.db.handle(ctx, m.queryContext(QueryTypeQuery, OperationUpdate, stmt, up))
		if err != nil {
			return 0, nil, err
		}
		if len(res.Rows) == 0 {
			return 0, Row{}, nil
		}
		return int64(len(res.Rows)), m.schema.Rebuild(res.Rows[0]), nil
	}

	res, err := m.db.handle(ctx, m.queryContext(QueryTypeExec, OperationUpdate, stmt, up))
	if err != nil {
		return 0, nil, err
	}
	n, err := res.Result.RowsAffected()
	if err != nil {
		return 0, nil, err
	}
	if o.ret != "" {
		return n, Row{}, nil
	}
	return n, nil, nil
}

// Remove 返回删除的行数
func (m *Model) Remove(ctx context.Context, query any) (int64, error) {
	del := NewDeleter(m.dialect(), m.table, query)
	stmt, err := del.Build()
	if err != nil {
		return 0, err
	}
	res, err := m.db.handle(ctx, m.queryContext(QueryTypeExec, OperationRemove, stmt, del))
	if err != nil {
		return 0, err
	}
	return res.Result.RowsAffected()
}

// Count 返回满足条件的行数
func (m *Model) Count(ctx context.Context, query any) (int64, error) {
	c := NewCounter(m.dialect(), m.table, query)
	stmt, err := c.Build()
	if err != nil {
		return 0, err
	}
	res, err := m.db.handle(ctx, m.queryContext(QueryTypeQuery, OperationCount, stmt, c))
	if err != nil {
		return 0, err
	}
	return countOf(res.Rows)
}

func (m *Model) queryContext(typ, op string, stmt *Statement, b StatementBuilder) *QueryContext {
	return &QueryContext{
		QueryType: typ,
		Operation: op,
		Table:     m.table,
		Statement: stmt,
		Builder:   b,
		Dialect:   m.dialect(),
	}
}
