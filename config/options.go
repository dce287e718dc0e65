package config

import "github.com/ceyewan/orderflow/clog"

type options struct {
	logger clog.Logger
}

// Option 加载器选项
type Option func(*options)

// WithLogger 注入日志组件
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
