package orders

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ukydev/oficina/internal/models"
)

var (
	namespace = "oficina"
	subsystem = "orders"

	statusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transitions_total",
			Help:      "Total number of service order status changes",
		},
		[]string{"from", "to"},
	)

	lineItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "line_items_total",
			Help:      "Total number of line items added to or removed from orders",
		},
		[]string{"kind", "op"},
	)

	computedTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "computed_total",
			Help:      "Order totals produced by the pricing engine",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		},
	)
)

func recordTransition(t Transition) {
	statusTransitionsTotal.WithLabelValues(string(t.From), string(t.To)).Inc()
}

func recordLineItem(kind, op string) {
	lineItemsTotal.WithLabelValues(kind, op).Inc()
}

func recordTotal(order *models.ServiceOrder) {
	f, _ := order.Total.Float64()
	computedTotal.Observe(f)
}
