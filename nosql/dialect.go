package nosql

import (
	"strings"
	"sync"

	"github.com/fyerfyer/fyer-nosql/nosql/internal/ferr"
)

// Dialect 封装不同数据库之间的差异
// 新增方言必须且只能实现以下方法
type Dialect interface {
	// Name 方言名称
	Name() string

	// Quote 根据数据库方言对标识符(表名、列名等)进行引用
	Quote(name string) string

	// Placeholder 生成第 index 个参数的占位符，index 从 1 开始
	Placeholder(index int) string

	// Regex 生成正则匹配谓词，col 为已引用的列名
	Regex(col string, placeholder string) string

	// SupportsReturning 是否支持 RETURNING 子句
	SupportsReturning() bool
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

// RegisterDialect 注册方言，同名方言会被覆盖
func RegisterDialect(name string, dialect Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = dialect
}

// GetDialect 按名称查找方言，找不到时返回 ErrInvalidDialect
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, ferr.ErrInvalidDialect(name)
	}
	return d, nil
}

type BaseDialect struct{}

// Quote 默认使用反引号
func (b BaseDialect) Quote(name string) string {
	return quoteWith('`', name)
}

// 默认使用问号作为占位符
func (b BaseDialect) Placeholder(index int) string {
	return "?"
}

// SupportsReturning 默认不支持，自增主键通过 LastInsertId 获取
func (b BaseDialect) SupportsReturning() bool {
	return false
}

// quoteWith 使用引用符包裹标识符，标识符内部的引用符会被转义成两个
func quoteWith(q byte, name string) string {
	var builder strings.Builder
	builder.Grow(len(name) + 2)
	builder.WriteByte(q)
	for i := 0; i < len(name); i++ {
		if name[i] == q {
			builder.WriteByte(q)
		}
		builder.WriteByte(name[i])
	}
	builder.WriteByte(q)
	return builder.String()
}
