// Package rescache 提供降级响应缓存组件。
//
// rescache 保存各依赖最近一次成功的幂等读响应，
// 在熔断器打开或网络调用失败时作为降级数据源。
// 只有读操作（GET）的响应会被缓存；写操作永远不会写入或命中缓存。
//
// 支持两种后端：
//   - standalone: 基于 otter 的进程内缓存（默认）
//   - distributed: 基于 Redis 的共享缓存，多副本网关可共享降级数据
//
// 基本使用：
//
//	cache, _ := rescache.New(&rescache.Config{
//	    Mode: "standalone",
//	    TTL:  5 * time.Minute,
//	}, rescache.WithLogger(logger))
//
//	key := rescache.Key("product", "GET", "/products/1", nil)
//	_ = cache.Put(ctx, key, payload)
//	payload, err := cache.Get(ctx, key)
package rescache

import (
	"context"
	"time"

	"github.com/ceyewan/orderflow/clog"
)

// Cache 定义降级缓存的核心能力
type Cache interface {
	// Put 以当前时间戳存储一次成功的读响应，覆盖同键旧值
	Put(ctx context.Context, key string, payload []byte) error

	// Get 返回未过期的缓存响应；键不存在或已过期时返回 ErrMiss，
	// 过期条目在访问时惰性清除
	Get(ctx context.Context, key string) ([]byte, error)
}

// Config 缓存组件统一配置
type Config struct {
	// Mode 缓存模式: "standalone" | "distributed" (默认 "standalone")
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// TTL 条目存活时间（默认：5m）
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// Capacity 单机模式最大条目数（默认：10000）
	Capacity int `json:"capacity" yaml:"capacity" mapstructure:"capacity"`

	// Prefix 分布式模式全局 Key 前缀 (e.g., "orderflow:fallback:")
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// Serializer 分布式模式条目编码: "msgpack" | "json" (默认 "msgpack")
	Serializer string `json:"serializer" yaml:"serializer" mapstructure:"serializer"`

	// Redis 分布式模式连接配置
	Redis *RedisConfig `json:"redis" yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
}

// validate 设置默认值
func (c *Config) validate() error {
	if c.Mode == "" {
		c.Mode = "standalone"
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.Capacity <= 0 {
		c.Capacity = 10000
	}
	if c.Serializer == "" {
		c.Serializer = "msgpack"
	}
	return nil
}

// New 根据配置创建缓存实例
//
// Mode 为 "standalone" 时创建进程内缓存；
// 为 "distributed" 时创建 Redis 缓存，需要配置 Redis 地址
// 或通过 WithRedisClient 注入客户端。
func New(cfg *Config, opts ...Option) (Cache, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	if opt.logger == nil {
		opt.logger = clog.Discard()
	}

	switch cfg.Mode {
	case "standalone":
		return newMemory(cfg, opt.logger)
	case "distributed":
		return newRedis(cfg, opt.logger, opt.redisClient)
	default:
		return nil, ErrUnknownMode
	}
}
