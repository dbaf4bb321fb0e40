package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vortex_orders_admitted_total",
		Help: "Orders admitted into the book.",
	})
	tradesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vortex_trades_executed_total",
		Help: "Trades executed by the matching engine.",
	})
	ordersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vortex_orders_expired_total",
		Help: "Orders removed by the expiry sweep.",
	})
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vortex_command_queue_depth",
		Help: "Commands waiting in the engine queue.",
	})
)
