package nosql

// Mysql 引用符、占位符和 RETURNING 均使用 BaseDialect 的默认实现
type Mysql struct {
	BaseDialect
}

func (m Mysql) Name() string {
	return "mysql"
}

func (m Mysql) Regex(col string, placeholder string) string {
	return col + " REGEXP " + placeholder
}

func init() {
	RegisterDialect("mysql", &Mysql{})
}
