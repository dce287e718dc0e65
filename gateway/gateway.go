// Package gateway 提供编排层访问下游依赖的统一调用入口。
//
// gateway 将熔断器与降级缓存组合为一条调用路径：
// 每次调用先询问熔断器是否放行；熔断中或网络失败时，
// 幂等读操作尝试返回缓存中最近一次成功响应；
// 写操作和携带凭证的调用没有降级路径，直接向调用方返回错误。
//
// 基本使用：
//
//	gw, _ := gateway.New(&gateway.Config{
//	    Timeout: 5 * time.Second,
//	    BaseURLs: map[string]string{
//	        "product": "http://product-service:8002",
//	    },
//	}, brk, cache, gateway.WithLogger(logger))
//
//	resp, err := gw.Do(ctx, &gateway.Request{
//	    Dependency: "product",
//	    Method:     "GET",
//	    Path:       "/products/1",
//	})
package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ceyewan/orderflow/breaker"
	"github.com/ceyewan/orderflow/clog"
	"github.com/ceyewan/orderflow/rescache"
)

// Request 一次依赖调用的描述
type Request struct {
	// Dependency 依赖名，所有熔断与缓存状态按此键隔离
	Dependency string

	// Method HTTP 方法（GET/POST/PUT/DELETE）
	Method string

	// Path 相对于依赖基础地址的路径
	Path string

	// Query 查询参数（参与读操作的缓存键）
	Query url.Values

	// Headers 附加请求头。携带 Authorization 的请求不参与缓存，
	// 其响应与调用方凭证绑定，不能作为其他调用方的降级数据
	Headers map[string]string

	// Body 请求体，非 nil 时以 JSON 发送
	Body any
}

// Response 一次依赖调用的结果
type Response struct {
	// StatusCode HTTP 状态码，来自缓存时恒为 200
	StatusCode int

	// Body 响应体
	Body []byte

	// FromCache 本响应是否来自降级缓存
	FromCache bool
}

// Gateway 依赖调用网关接口
type Gateway interface {
	// Do 执行一次受熔断保护、可缓存降级的依赖调用
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Config 网关配置
type Config struct {
	// Timeout 单次调用超时（默认：5s）
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// BaseURLs 依赖名到基础地址的映射
	BaseURLs map[string]string `json:"base_urls" yaml:"base_urls" mapstructure:"base_urls"`
}

// validate 设置默认值并验证配置
func (c *Config) validate() error {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if len(c.BaseURLs) == 0 {
		return ErrNoBaseURLs
	}
	return nil
}

// New 创建网关实例
//
// 参数:
//   - cfg: 网关配置
//   - brk: 熔断器
//   - cache: 降级缓存
//   - opts: 可选参数 (Logger)
func New(cfg *Config, brk breaker.Breaker, cache rescache.Cache, opts ...Option) (Gateway, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if brk == nil || cache == nil {
		return nil, ErrDepsNil
	}

	opt := options{}
	for _, o := range opts {
		o(&opt)
	}
	if opt.logger == nil {
		opt.logger = clog.Discard()
	}

	client := resty.New().SetTimeout(cfg.Timeout)

	return &gatewayImpl{
		cfg:     cfg,
		breaker: brk,
		cache:   cache,
		client:  client,
		logger:  opt.logger,
	}, nil
}
