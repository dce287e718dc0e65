package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/gateway"
	"github.com/ceyewan/orderflow/xerrors"
)

// notificationDependency 降级路径经网关调用的依赖名
const notificationDependency = "notification"

// publisher 发布组件实现（非导出）
type publisher struct {
	cfg     *Config
	gw      gateway.Gateway
	logger  clog.Logger
	conn    *nats.Conn
	publish func(subject string, data []byte) error // nil 表示中间件路径不可用
}

// New 创建事件发布组件
//
// 参数:
//   - cfg: 发布配置，URL 为空时事件一律走 HTTP 降级
//   - gw: 网关，用于降级调用通知依赖
//   - opts: 可选参数 (Logger)
func New(cfg *Config, gw gateway.Gateway, opts ...Option) (Publisher, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, ErrGatewayNil
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	if opt.logger == nil {
		opt.logger = clog.Discard()
	}

	p := &publisher{
		cfg:    cfg,
		gw:     gw,
		logger: opt.logger,
	}

	if cfg.URL != "" {
		conn, err := nats.Connect(cfg.URL,
			nats.Name(cfg.Name),
			nats.Timeout(cfg.Timeout),
			nats.ReconnectWait(cfg.ReconnectWait),
			nats.MaxReconnects(cfg.MaxReconnects),
		)
		if err != nil {
			// 启动时中间件不可达不算致命：保留 HTTP 降级路径
			opt.logger.Warn("nats unavailable, events will use http fallback",
				clog.String("url", cfg.URL),
				clog.Error(err))
		} else {
			p.conn = conn
			p.publish = conn.Publish
		}
	}

	return p, nil
}

// OrderCreated 发布订单创建事件
//
// 先尝试向中间件发布；发布失败（或中间件未配置）时，
// 降级为经网关同步调用通知依赖发送确认邮件。
func (p *publisher) OrderCreated(ctx context.Context, evt *OrderCreatedEvent) Result {
	if evt == nil {
		return ResultFailed
	}

	if p.publish != nil {
		data, err := json.Marshal(evt)
		if err == nil {
			if err = p.publish(p.cfg.Subject, data); err == nil {
				p.logger.InfoContext(ctx, "event published",
					clog.String("subject", p.cfg.Subject),
					clog.Int64("order_id", evt.OrderID))
				publishTotal.WithLabelValues(ResultPublished.String()).Inc()
				return ResultPublished
			}
		}
		p.logger.WarnContext(ctx, "event publish failed, falling back to http",
			clog.String("subject", p.cfg.Subject),
			clog.Int64("order_id", evt.OrderID),
			clog.Error(err))
	}

	if p.notifyByHTTP(ctx, evt) {
		publishTotal.WithLabelValues(ResultFellBack.String()).Inc()
		return ResultFellBack
	}

	publishTotal.WithLabelValues(ResultFailed.String()).Inc()
	return ResultFailed
}

// Close 关闭中间件连接
func (p *publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
		p.logger.Info("nats connection closed")
	}
	return nil
}

// notifyByHTTP 降级路径：同步调用通知依赖发送确认邮件
func (p *publisher) notifyByHTTP(ctx context.Context, evt *OrderCreatedEvent) bool {
	body := map[string]string{
		"to":      evt.CustomerEmail,
		"subject": fmt.Sprintf("Order #%d confirmation", evt.OrderID),
		"content": fmt.Sprintf("Your order #%d has been placed successfully.", evt.OrderID),
	}

	resp, err := p.gw.Do(ctx, &gateway.Request{
		Dependency: notificationDependency,
		Method:     "POST",
		Path:       "/notifications/email",
		Body:       body,
	})
	if err != nil || resp.StatusCode != 200 {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		p.logger.ErrorContext(ctx, "notification fallback failed",
			clog.Int64("order_id", evt.OrderID),
			clog.Int("status", status),
			clog.Error(err))
		return false
	}
	return true
}

// ErrGatewayNil 网关未注入
var ErrGatewayNil = xerrors.New("events: gateway is required")
