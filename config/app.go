package config

import (
	"context"

	"github.com/ceyewan/orderflow/breaker"
	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/events"
	"github.com/ceyewan/orderflow/gateway"
	"github.com/ceyewan/orderflow/rescache"
	"github.com/ceyewan/orderflow/server"
	"github.com/ceyewan/orderflow/workflow"
)

// AppConfig orderflow 全量配置
type AppConfig struct {
	Server  server.Config   `json:"server" yaml:"server" mapstructure:"server"`
	Log     clog.Config     `json:"log" yaml:"log" mapstructure:"log"`
	Breaker breaker.Config  `json:"breaker" yaml:"breaker" mapstructure:"breaker"`
	Cache   rescache.Config `json:"cache" yaml:"cache" mapstructure:"cache"`
	Gateway gateway.Config  `json:"gateway" yaml:"gateway" mapstructure:"gateway"`
	Events  events.Config   `json:"events" yaml:"events" mapstructure:"events"`
}

// defaults 各配置项的默认值，键为 Viper 点分路径。
// 未在配置文件或环境变量中出现的 key 必须在此注册默认值，
// 否则 AutomaticEnv 下 Unmarshal 取不到对应的环境变量。
var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.mode":             "release",
	"server.rate_limit.rps":   0.0,
	"server.rate_limit.burst": 0,

	"log.level":  "info",
	"log.format": "json",
	"log.output": "stdout",

	"breaker.cooldown":      "30s",
	"breaker.failure_ratio": 0.5,
	"breaker.window_size":   10,
	"breaker.min_samples":   5,

	"cache.mode":       "standalone",
	"cache.ttl":        "5m",
	"cache.capacity":   10000,
	"cache.serializer": "msgpack",
	"cache.prefix":     "orderflow:res:",

	"gateway.timeout": "5s",
	"gateway.base_urls." + workflow.DepAuth:         "http://auth-service:8000",
	"gateway.base_urls." + workflow.DepCustomer:     "http://customer-service:8000",
	"gateway.base_urls." + workflow.DepProduct:      "http://product-service:8000",
	"gateway.base_urls." + workflow.DepOrder:        "http://order-service:8000",
	"gateway.base_urls." + workflow.DepNotification: "http://notification-service:8000",
	"gateway.base_urls." + workflow.DepCart:         "http://cart-service:8000",

	// events.url 为空时禁用消息代理，事件走 HTTP 降级通道
	"events.url":            "",
	"events.name":           "orderflow",
	"events.subject":        "order.created",
	"events.timeout":        "5s",
	"events.reconnect_wait": "2s",
	"events.max_reconnects": 60,
}

// LoadApp 一步加载全量配置：创建加载器、加载所有来源并反序列化。
// 需要热更新时改用 New + Load + Watch。
func LoadApp(cfg *Config, opts ...Option) (*AppConfig, error) {
	loader, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := loader.Load(context.Background()); err != nil {
		return nil, err
	}

	var app AppConfig
	if err := loader.Unmarshal(&app); err != nil {
		return nil, err
	}
	return &app, nil
}
