package nosql

// Statement 是一条完整的 SQL 语句和按顺序绑定的参数
type Statement struct {
	SQL  string
	Args []any
}

// StatementBuilder 语句构建接口
type StatementBuilder interface {
	Build() (*Statement, error)
}
