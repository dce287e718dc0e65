package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// publishTotal 事件发布结果计数，result: published | fell_back | failed
var publishTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "orderflow_events_publish_total",
		Help: "Total number of order event publications by result",
	},
	[]string{"result"},
)
