package gateway

import "github.com/ceyewan/orderflow/xerrors"

// 错误码，供 HTTP 层映射状态码
const (
	// CodeUnavailable 熔断中且无缓存降级 → 503
	CodeUnavailable = "DEPENDENCY_UNAVAILABLE"

	// CodeUnreachable 网络失败且无缓存降级 → 502
	CodeUnreachable = "DEPENDENCY_UNREACHABLE"
)

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("gateway: config is nil")

	// ErrDepsNil 熔断器或缓存未注入
	ErrDepsNil = xerrors.New("gateway: breaker and cache are required")

	// ErrRequestNil 请求为空
	ErrRequestNil = xerrors.New("gateway: request is nil")

	// ErrNoBaseURLs 未配置任何依赖地址
	ErrNoBaseURLs = xerrors.New("gateway: no dependency base urls configured")

	// ErrUnknownDependency 依赖名未配置基础地址
	ErrUnknownDependency = xerrors.New("gateway: unknown dependency")

	// ErrUnavailable 熔断中且读缓存未命中，调用方可稍后重试
	ErrUnavailable = xerrors.WithCode(
		xerrors.New("gateway: dependency unavailable, circuit open and no cached fallback"),
		CodeUnavailable)

	// ErrUnreachable 网络失败且读缓存未命中
	ErrUnreachable = xerrors.WithCode(
		xerrors.New("gateway: dependency unreachable and no cached fallback"),
		CodeUnreachable)
)
