package breaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 熔断器指标
var (
	// transitionsTotal 状态迁移计数
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"dependency", "from", "to"},
	)

	// rejectionsTotal 被熔断器拒绝的调用计数
	rejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_breaker_rejections_total",
			Help: "Total number of calls rejected by an open circuit breaker",
		},
		[]string{"dependency"},
	)
)
