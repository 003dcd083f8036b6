package nosql

import (
	"reflect"
	"sort"
)

// E 是有序文档中的一个键值对
type E struct {
	Key   string
	Value any
}

// D 是保留插入顺序的文档，编译结果按照 D 中的顺序输出
type D []E

// M 是无序文档，编译时按照键名排序以保证输出稳定
type M map[string]any

// A 是文档中的数组，用于 $or、$in、$nin 以及投影列表
type A []any

// Row 表示一行查询结果
type Row map[string]any

// Get 返回键对应的值
func (d D) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Map 把有序文档转换为 M，重复的键以最后一次出现为准
func (d D) Map() M {
	m := make(M, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

// entries 把文档统一展开为有序的键值对
// D 保持原有顺序，map 按键名排序
func entries(doc any) ([]E, bool) {
	switch d := doc.(type) {
	case nil:
		return nil, true
	case D:
		return d, true
	case *D:
		if d == nil {
			return nil, true
		}
		return *d, true
	case M:
		return sortedEntries(d), true
	case map[string]any:
		return sortedEntries(d), true
	case Row:
		return sortedEntries(d), true
	}

	// 其余 map[string]T 通过反射处理，例如 map[string]int
	val := reflect.ValueOf(doc)
	if val.Kind() != reflect.Map || val.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if val.IsNil() {
		return nil, true
	}
	res := make([]E, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		res = append(res, E{Key: iter.Key().String(), Value: iter.Value().Interface()})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Key < res[j].Key
	})
	return res, true
}

func sortedEntries[V any](m map[string]V) []E {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]E, 0, len(keys))
	for _, k := range keys {
		res = append(res, E{Key: k, Value: m[k]})
	}
	return res
}

// isDocument 判断值是否是一个文档（操作符对象）
func isDocument(v any) bool {
	switch v.(type) {
	case D, *D, M, map[string]any, Row:
		return true
	case nil:
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// sequence 把数组类的值展开，[]byte 和 D 不视为数组
func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case A:
		return s, true
	case []any:
		return s, true
	case []byte, D, *D:
		return nil, false
	case []D:
		res := make([]any, len(s))
		for i := range s {
			res[i] = s[i]
		}
		return res, true
	case []M:
		res := make([]any, len(s))
		for i := range s {
			res[i] = s[i]
		}
		return res, true
	case []string:
		res := make([]any, len(s))
		for i := range s {
			res[i] = s[i]
		}
		return res, true
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return nil, false
	}
	res := make([]any, val.Len())
	for i := 0; i < val.Len(); i++ {
		res[i] = val.Index(i).Interface()
	}
	return res, true
}
