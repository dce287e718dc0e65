package rescache

import (
	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/orderflow/clog"
)

// Option 缓存组件选项函数
type Option func(*options)

// options 选项结构（内部使用）
type options struct {
	logger      clog.Logger
	redisClient *redis.Client
}

// WithLogger 注入日志记录器
// 组件内部会自动追加 Namespace: logger.WithNamespace("rescache")
func WithLogger(l clog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l.WithNamespace("rescache")
		}
	}
}

// WithRedisClient 注入 Redis 客户端（仅用于分布式模式，优先于 Config.Redis）
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) {
		o.redisClient = client
	}
}
