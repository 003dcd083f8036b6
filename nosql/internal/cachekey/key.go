package cachekey

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Generator 为语句生成缓存键
type Generator interface {
	Generate(table, operation, query string, args []any) string
	TagKey(tag string) string
}

// DefaultGenerator 格式为 prefix:table:operation:md5(sql):md5(args)
type DefaultGenerator struct {
	prefix     string
	tagPrefix  string
	maxKeySize int
}

func NewDefaultGenerator(prefix string) *DefaultGenerator {
	return &DefaultGenerator{
		prefix:     prefix,
		tagPrefix:  "tag:",
		maxKeySize: 200,
	}
}

func (g *DefaultGenerator) WithTagPrefix(prefix string) *DefaultGenerator {
	g.tagPrefix = prefix
	return g
}

func (g *DefaultGenerator) WithMaxKeySize(size int) *DefaultGenerator {
	g.maxKeySize = size
	return g
}

func (g *DefaultGenerator) Generate(table, operation, query string, args []any) string {
	var key strings.Builder
	if g.prefix != "" {
		key.WriteString(g.prefix)
		if !strings.HasSuffix(g.prefix, ":") {
			key.WriteString(":")
		}
	}
	key.WriteString(table)
	key.WriteString(":")
	key.WriteString(operation)
	key.WriteString(":")
	key.WriteString(hash(query))
	if len(args) > 0 {
		key.WriteString(":")
		key.WriteString(hash(ArgsString(args)))
	}

	res := key.String()
	if g.maxKeySize > 32 && len(res) > g.maxKeySize {
		res = res[:g.maxKeySize-32] + hash(res)
	}
	return res
}

func (g *DefaultGenerator) TagKey(tag string) string {
	return g.tagPrefix + tag
}

// TableTag 表级别的失效标签
func TableTag(table string) string {
	return "table:" + table
}

func hash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ArgsString 把参数序列化为稳定的字符串
func ArgsString(args []any) string {
	var builder strings.Builder
	for i, arg := range args {
		if i > 0 {
			builder.WriteString(",")
		}
		switch v := arg.(type) {
		case nil:
			builder.WriteString("nil")
		case string:
			builder.WriteString(strconv.Quote(v))
		case []byte:
			builder.WriteString(strconv.Quote(string(v)))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			builder.WriteString(fmt.Sprintf("%d", v))
		case float32, float64:
			builder.WriteString(strconv.FormatFloat(reflect.ValueOf(v).Float(), 'g', -1, 64))
		case bool:
			builder.WriteString(strconv.FormatBool(v))
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			builder.WriteString("{")
			for j, k := range keys {
				if j > 0 {
					builder.WriteString(",")
				}
				builder.WriteString(k)
				builder.WriteString("=")
				builder.WriteString(ArgsString([]any{v[k]}))
			}
			builder.WriteString("}")
		default:
			builder.WriteString(reflect.TypeOf(v).String())
			builder.WriteString(":")
			builder.WriteString(fmt.Sprintf("%v", v))
		}
	}
	return builder.String()
}
