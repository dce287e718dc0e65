package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 网关指标
var (
	// callsTotal 依赖调用计数，outcome: ok | error | rejected
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_gateway_calls_total",
			Help: "Total number of dependency calls by outcome",
		},
		[]string{"dependency", "outcome"},
	)

	// cacheHits 降级缓存命中计数
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderflow_gateway_cache_hits_total",
			Help: "Total number of responses served from the fallback cache",
		},
		[]string{"dependency"},
	)
)
