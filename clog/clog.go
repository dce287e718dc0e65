package clog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用默认配置
func New(config *Config) (Logger, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	level, _ := parseLevel(config.Level)

	var out io.Writer
	switch config.Output {
	case "stderr":
		out = os.Stderr
	default:
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &loggerImpl{sl: slog.New(handler)}, nil
}

// loggerImpl 是 Logger 接口的具体实现
type loggerImpl struct {
	sl        *slog.Logger
	namespace string
}

func (l *loggerImpl) log(ctx context.Context, level slog.Level, msg string, fields ...Field) {
	if l.namespace != "" {
		fields = append(fields, slog.String("namespace", l.namespace))
	}
	l.sl.LogAttrs(ctx, level, msg, fields...)
}

func (l *loggerImpl) Debug(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelDebug, msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelInfo, msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelWarn, msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelError, msg, fields...)
}

// Fatal 记录错误日志后退出进程，仅用于启动阶段
func (l *loggerImpl) Fatal(msg string, fields ...Field) {
	l.log(context.Background(), slog.LevelError+4, msg, fields...)
	os.Exit(1)
}

func (l *loggerImpl) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields...)
}

func (l *loggerImpl) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields...)
}

func (l *loggerImpl) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields...)
}

func (l *loggerImpl) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields...)
}

func (l *loggerImpl) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return &loggerImpl{sl: l.sl.With(args...), namespace: l.namespace}
}

func (l *loggerImpl) WithNamespace(parts ...string) Logger {
	ns := strings.Join(parts, ".")
	if l.namespace != "" && ns != "" {
		ns = l.namespace + "." + ns
	} else if ns == "" {
		ns = l.namespace
	}
	return &loggerImpl{sl: l.sl, namespace: ns}
}
