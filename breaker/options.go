package breaker

import (
	"time"

	"github.com/ceyewan/orderflow/clog"
)

// Option 组件初始化选项函数
type Option func(*options)

// options 组件初始化选项配置（内部使用，小写）
type options struct {
	logger clog.Logger
	now    func() time.Time
}

// WithLogger 设置 Logger，传入 nil 时使用 clog.Discard()
// 内部会自动添加 namespace: "breaker"
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = clog.Discard()
		} else {
			o.logger = logger.WithNamespace("breaker")
		}
	}
}

// WithClock 注入时钟函数，仅用于测试冷却计时
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
