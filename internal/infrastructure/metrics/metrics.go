package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the room lifecycle engine.
type Metrics struct {
	RoomsCreated    prometheus.Counter
	RoomsExpired    prometheus.Counter
	RoomsExtended   prometheus.Counter
	RoomsDeleted    prometheus.Counter
	MessagesSent    prometheus.Counter
	OrdersInitiated prometheus.Counter
	OrdersCompleted prometheus.Counter
	ActiveClients   prometheus.Gauge
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RoomsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_rooms_created_total",
			Help: "Total number of rooms created.",
		}),
		RoomsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_rooms_expired_total",
			Help: "Total number of rooms that reached expiry.",
		}),
		RoomsExtended: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_rooms_extended_total",
			Help: "Total number of confirmed time extensions.",
		}),
		RoomsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_rooms_deleted_total",
			Help: "Total number of soft-deleted rooms.",
		}),
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_messages_sent_total",
			Help: "Total number of accepted messages.",
		}),
		OrdersInitiated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_orders_initiated_total",
			Help: "Total number of checkout sessions created.",
		}),
		OrdersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuseroom_orders_completed_total",
			Help: "Total number of orders fulfilled exactly once.",
		}),
		ActiveClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fuseroom_ws_active_clients",
			Help: "Currently connected realtime subscribers.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fuseroom_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}
