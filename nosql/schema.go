package nosql

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// FieldType 字段的目标类型
type FieldType int

const (
	Any FieldType = iota
	Number
	String
)

func (t FieldType) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "any"
	}
}

// Field 描述一个字段的类型和默认值
type Field struct {
	Key     string
	Type    FieldType
	Default any
}

// Schema 对查询结果做类型转换和默认值填充
// 创建后只读，可以并发使用
type Schema struct {
	fields []Field
}

// NewSchema 按给定顺序创建 Schema
func NewSchema(fields ...Field) *Schema {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return &Schema{fields: fs}
}

// SchemaOf 从声明文档创建 Schema
// 值可以是 FieldType、Field 或 nil，nil 表示 Any 类型且没有默认值
func SchemaOf(decl any) (*Schema, error) {
	es, ok := entries(decl)
	if !ok {
		return nil, fmt.Errorf("nosql: invalid schema declaration: %T", decl)
	}

	fields := make([]Field, 0, len(es))
	for _, e := range es {
		switch v := e.Value.(type) {
		case nil:
			fields = append(fields, Field{Key: e.Key, Type: Any})
		case FieldType:
			fields = append(fields, Field{Key: e.Key, Type: v})
		case Field:
			v.Key = e.Key
			fields = append(fields, v)
		case int:
			fields = append(fields, Field{Key: e.Key, Type: FieldType(v)})
		default:
			return nil, fmt.Errorf("nosql: invalid schema field %s: %T", e.Key, e.Value)
		}
	}
	return &Schema{fields: fields}, nil
}

// Fields 返回字段声明的副本
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	res := make([]Field, len(s.fields))
	copy(res, s.fields)
	return res
}

// Rebuild 按照声明转换一行数据
// 缺失或为空的字段使用默认值，未声明的字段原样保留
func (s *Schema) Rebuild(raw Row) Row {
	out := make(Row, len(raw))
	if s != nil {
		for _, f := range s.fields {
			v := raw[f.Key]
			if isBadValue(v) {
				if f.Default != nil {
					out[f.Key] = f.Default
				}
				continue
			}
			switch f.Type {
			case Number:
				out[f.Key] = toNumber(v)
			case String:
				out[f.Key] = toString(v)
			default:
				out[f.Key] = v
			}
		}
	}

	for k, v := range raw {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// RebuildAll 转换多行数据
func (s *Schema) RebuildAll(rows []Row) []Row {
	res := make([]Row, 0, len(rows))
	for _, r := range rows {
		res = append(res, s.Rebuild(r))
	}
	return res
}

func isBadValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(val)
	case float32:
		return math.IsNaN(float64(val))
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// toNumber 转换为数值，整数保持 int64，无法转换时返回 NaN
func toNumber(v any) any {
	switch val := v.(type) {
	case int64, float64:
		return val
	case []byte:
		return parseNumber(string(val))
	case string:
		return parseNumber(val)
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return val.UnixMilli()
	case int, int8, int16, int32, uint8, uint16, uint32:
		return cast.ToInt64(val)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseNumber(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return int64(0)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return math.NaN()
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
