package logger

import (
	"io"
	"time"
)

// Level 日志级别
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	// Disabled 关闭所有输出
	Disabled
)

// Field 结构化日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With 返回附带固定字段的子日志
	With(fields ...Field) Logger
}

// Option 日志配置项
type Option func(*Config)

// Config 日志配置
type Config struct {
	Level      Level
	Output     io.Writer
	TimeFormat string
}

func WithLevel(level Level) Option {
	return func(cfg *Config) {
		cfg.Level = level
	}
}

func WithOutput(w io.Writer) Option {
	return func(cfg *Config) {
		cfg.Output = w
	}
}

func WithTimeFormat(format string) Option {
	return func(cfg *Config) {
		cfg.TimeFormat = format
	}
}

func defaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		TimeFormat: time.RFC3339,
	}
}

var defaultLogger = New()

// Default 返回包级默认日志
func Default() Logger {
	return defaultLogger
}

// SetDefault 替换包级默认日志
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err 错误字段，键固定为 error
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

type nopLogger struct{}

// Nop 丢弃所有日志
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}

func (n nopLogger) With(...Field) Logger {
	return n
}
