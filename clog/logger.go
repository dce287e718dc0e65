// Package clog 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 支持层级命名空间，适配组件化架构
//   - 零外部依赖（仅依赖 Go 标准库）
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//	logger.Info("order placed", clog.String("customer_id", "c1"))
//
// 创建子 Logger：
//
//	gwLogger := logger.WithNamespace("gateway")
//	reqLogger := logger.With(clog.String("request_id", rid))
package clog

import "context"

// Logger 日志接口，提供结构化日志记录功能
//
// 支持 Debug、Info、Warn、Error、Fatal 五个级别，
// 每个级别都有带 Context 和不带 Context 的版本。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger，预设字段会出现在所有日志中
	With(fields ...Field) Logger

	// WithNamespace 创建带层级命名空间的子 Logger
	//
	// 示例：
	//   logger.WithNamespace("gateway")          // namespace=gateway
	//   logger.WithNamespace("gateway", "cache") // namespace=gateway.cache
	WithNamespace(parts ...string) Logger
}
