// Package breaker 提供熔断器组件，专注于下游依赖的故障隔离与自动恢复。
//
// breaker 是 orderflow 治理层的核心组件，它提供了：
// - 显式的 CLOSED/OPEN/HALF_OPEN 状态机，单一状态来源
// - 基于滑动窗口失败率的熔断判定
// - 依赖级粒度的熔断管理（按依赖名独立熔断，首次使用时惰性创建）
// - 冷却期结束后通过半开状态单探测恢复
//
// ## 基本使用
//
//	brk, _ := breaker.New(&breaker.Config{
//		Cooldown:     30 * time.Second,
//		FailureRatio: 0.5,
//		WindowSize:   10,
//		MinSamples:   5,
//	}, breaker.WithLogger(logger))
//
//	probe, err := brk.Allow("product")
//	if err != nil {
//		// 熔断中，走降级路径
//	}
//	// ... 发起调用 ...
//	brk.Record("product", callSucceeded, probe)
package breaker

import (
	"time"

	"github.com/ceyewan/orderflow/clog"
)

// Breaker 熔断器核心接口
type Breaker interface {
	// Allow 判定是否允许对指定依赖发起一次调用
	//
	// 返回 probe=true 表示本次调用是半开状态下的探测调用，
	// 调用方必须将 probe 原样传回 Record。
	// 调用被拒绝时返回 ErrOpenState。
	Allow(name string) (probe bool, err error)

	// Record 记录一次调用结果
	//
	// 每次调用的结果（成功、失败、超时）都必须且只能记录一次，
	// 无论是普通调用还是探测调用。
	Record(name string, success bool, probe bool)

	// State 获取指定依赖的熔断器状态
	State(name string) State
}

// State 熔断器状态
type State int

const (
	// StateClosed 闭合状态（正常）
	StateClosed State = iota
	// StateOpen 打开状态（熔断中）
	StateOpen
	// StateHalfOpen 半开状态（探测恢复）
	StateHalfOpen
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config 熔断器配置
type Config struct {
	// Cooldown 打开状态持续时间（默认：30s）
	// 冷却结束后下一次调用作为探测放行
	Cooldown time.Duration `json:"cooldown" yaml:"cooldown" mapstructure:"cooldown"`

	// FailureRatio 失败率阈值（默认：0.5，即 50%）
	// 窗口内失败率达到此值时触发熔断
	FailureRatio float64 `json:"failure_ratio" yaml:"failure_ratio" mapstructure:"failure_ratio"`

	// WindowSize 滑动窗口容量（默认：10）
	WindowSize int `json:"window_size" yaml:"window_size" mapstructure:"window_size"`

	// MinSamples 触发熔断的最小样本数（默认：5，不得大于 WindowSize）
	// 样本数不足时失败率视为未超阈值
	MinSamples int `json:"min_samples" yaml:"min_samples" mapstructure:"min_samples"`
}

// validate 设置默认值并验证配置
func (c *Config) validate() error {
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.FailureRatio <= 0 {
		c.FailureRatio = 0.5
	}
	if c.WindowSize <= 0 {
		c.WindowSize = 10
	}
	if c.MinSamples <= 0 {
		c.MinSamples = 5
	}
	if c.MinSamples > c.WindowSize {
		return ErrMinSamplesTooLarge
	}
	return nil
}

// New 创建熔断器实例
//
// 参数:
//   - cfg: 熔断器配置
//   - opts: 可选参数 (Logger, Clock)
func New(cfg *Config, opts ...Option) (Breaker, error) {
	if cfg == nil {
		return nil, ErrConfigNil
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
	if opt.now == nil {
		opt.now = time.Now
	}

	return newRegistry(cfg, opt.logger, opt.now), nil
}
