// Package config 提供 orderflow 的统一配置管理，基于 Viper 实现。
//
// 配置优先级：环境变量 > .env 文件 > 配置文件 > 默认值。
// 环境变量以 ORDERFLOW_ 为前缀，层级用下划线分隔，
// 例如 ORDERFLOW_BREAKER_COOLDOWN=30s 对应 breaker.cooldown。
//
// 基本使用：
//
//	loader, err := config.New(nil)
//	if err != nil { ... }
//	if err := loader.Load(ctx); err != nil { ... }
//
//	var cfg config.AppConfig
//	if err := loader.Unmarshal(&cfg); err != nil { ... }
package config

import (
	"context"
	"strings"
	"time"
)

// Config 加载器自身的配置
type Config struct {
	// Name 配置文件名称，不含扩展名（默认 "config"）
	Name string

	// Paths 配置文件搜索路径（默认 ["."，"./config"]）
	Paths []string

	// FileType 配置文件类型（默认 "yaml"）
	FileType string

	// EnvPrefix 环境变量前缀（默认 "ORDERFLOW"）
	EnvPrefix string
}

// validate 设置默认值
func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{".", "./config"}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "ORDERFLOW"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
	return nil
}

// Loader 配置加载器
type Loader interface {
	// Load 从所有来源加载配置
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// Watch 订阅指定 key 的变更，context 取消时停止监听
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Event 配置变更事件
type Event struct {
	Key       string
	Value     any
	OldValue  any
	Timestamp time.Time
}

// New 创建配置加载器，cfg 为 nil 时使用默认配置
func New(cfg *Config, opts ...Option) (Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newLoader(cfg, opts...)
}
