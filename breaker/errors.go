package breaker

import "github.com/ceyewan/orderflow/xerrors"

// 错误定义
var (
	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("breaker: config is nil")

	// ErrKeyEmpty 依赖名为空
	ErrKeyEmpty = xerrors.New("breaker: dependency name is empty")

	// ErrOpenState 熔断器处于打开状态，调用被拒绝
	ErrOpenState = xerrors.New("breaker: circuit breaker is open")

	// ErrMinSamplesTooLarge 最小样本数超过窗口容量
	ErrMinSamplesTooLarge = xerrors.New("breaker: min_samples must not exceed window_size")
)
