package nosql

import "strconv"

type Postgresql struct {
	BaseDialect
}

func (p Postgresql) Name() string {
	return "pgsql"
}

// Quote PostgreSQL使用双引号作为标识符引用符
func (p Postgresql) Quote(name string) string {
	return quoteWith('"', name)
}

// Placeholder PostgreSQL使用$n作为参数占位符
func (p Postgresql) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

func (p Postgresql) Regex(col string, placeholder string) string {
	return col + " ~ " + placeholder
}

func (p Postgresql) SupportsReturning() bool {
	return true
}

func init() {
	pg := &Postgresql{}
	RegisterDialect("pgsql", pg)
	RegisterDialect("postgresql", pg)
	RegisterDialect("postgres", pg)
}
