package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type zerologLogger struct {
	zlog zerolog.Logger
}

// New 创建基于 zerolog 的日志
func New(opts ...Option) Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	ctx := zerolog.New(output).With()
	if cfg.TimeFormat != "" {
		ctx = ctx.Timestamp()
	}
	zlog := ctx.Logger().Level(toZerologLevel(cfg.Level))
	return &zerologLogger{zlog: zlog}
}

// FromZerolog 包装已有的 zerolog.Logger
func FromZerolog(zlog zerolog.Logger) Logger {
	return &zerologLogger{zlog: zlog}
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	write(l.zlog.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	write(l.zlog.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	write(l.zlog.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	write(l.zlog.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...Field) Logger {
	ctx := l.zlog.With()
	for _, f := range fields {
		ctx = addFieldToContext(ctx, f)
	}
	return &zerologLogger{zlog: ctx.Logger()}
}

// write 级别被过滤时 event 为 nil，zerolog 的方法可以安全地在 nil 上调用
func write(event *zerolog.Event, msg string, fields []Field) {
	if event == nil {
		return
	}
	for _, f := range fields {
		addFieldToEvent(event, f)
	}
	event.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case Disabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func addFieldToEvent(event *zerolog.Event, field Field) {
	switch v := field.Value.(type) {
	case string:
		event.Str(field.Key, v)
	case int:
		event.Int(field.Key, v)
	case int64:
		event.Int64(field.Key, v)
	case float64:
		event.Float64(field.Key, v)
	case bool:
		event.Bool(field.Key, v)
	case time.Duration:
		event.Dur(field.Key, v)
	case time.Time:
		event.Time(field.Key, v)
	case error:
		event.AnErr(field.Key, v)
	default:
		event.Interface(field.Key, v)
	}
}

func addFieldToContext(ctx zerolog.Context, field Field) zerolog.Context {
	switch v := field.Value.(type) {
	case string:
		return ctx.Str(field.Key, v)
	case int:
		return ctx.Int(field.Key, v)
	case int64:
		return ctx.Int64(field.Key, v)
	case float64:
		return ctx.Float64(field.Key, v)
	case bool:
		return ctx.Bool(field.Key, v)
	case time.Duration:
		return ctx.Dur(field.Key, v)
	case time.Time:
		return ctx.Time(field.Key, v)
	case error:
		return ctx.AnErr(field.Key, v)
	default:
		return ctx.Interface(field.Key, v)
	}
}
