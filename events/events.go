// Package events 提供订单事件的尽力而为发布组件。
//
// 首选路径是向消息中间件（NATS）发布 order.created 事件；
// 发布失败时降级为经网关同步调用通知依赖发送邮件。
// 两条路径都失败时只记录日志，绝不中断外层工作流。
//
// 发布结果以标记值返回（Published / FellBack / Failed），
// 调用方据此记录指标或日志，而不是依赖异常分支。
package events

import (
	"context"
	"time"
)

// Result 一次事件发布的结果标记
type Result int

const (
	// ResultPublished 事件已发布到消息中间件
	ResultPublished Result = iota
	// ResultFellBack 发布失败，已降级为同步 HTTP 通知
	ResultFellBack
	// ResultFailed 发布与降级均失败（已记录日志，不向上传播）
	ResultFailed
)

// String 返回结果的字符串表示
func (r Result) String() string {
	switch r {
	case ResultPublished:
		return "published"
	case ResultFellBack:
		return "fell_back"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OrderCreatedEvent 订单创建事件载荷
type OrderCreatedEvent struct {
	OrderID       int64  `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerID    string `json:"customer_id"`
}

// Publisher 订单事件发布接口
type Publisher interface {
	// OrderCreated 发布订单创建事件，永不返回错误
	OrderCreated(ctx context.Context, evt *OrderCreatedEvent) Result

	// Close 关闭中间件连接，未建立连接时为空操作
	Close() error
}

// Config 发布组件配置
type Config struct {
	// URL NATS 连接地址，为空时禁用中间件路径，事件一律走 HTTP 降级
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// Name 连接名（默认："orderflow"）
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Subject 事件主题（默认："order.created"）
	Subject string `json:"subject" yaml:"subject" mapstructure:"subject"`

	// Timeout 连接超时（默认：5s）
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// ReconnectWait 重连等待时间（默认：2s）
	ReconnectWait time.Duration `json:"reconnect_wait" yaml:"reconnect_wait" mapstructure:"reconnect_wait"`

	// MaxReconnects 最大重连次数（默认：60）
	MaxReconnects int `json:"max_reconnects" yaml:"max_reconnects" mapstructure:"max_reconnects"`
}

// validate 设置默认值
func (c *Config) validate() error {
	if c.Name == "" {
		c.Name = "orderflow"
	}
	if c.Subject == "" {
		c.Subject = "order.created"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.ReconnectWait <= 0 {
		c.ReconnectWait = 2 * time.Second
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = 60
	}
	return nil
}
