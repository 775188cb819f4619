package metrics

import "github.com/prometheus/client_golang/prometheus"

// RealtimeMetrics counts change events flowing through the realtime hub.
type RealtimeMetrics struct {
	received  *prometheus.CounterVec
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewRealtimeMetrics registers the realtime counters on the provided registerer.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	if reg == nil {
		return &RealtimeMetrics{}
	}
	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_received_total",
		Help: "Row change events received from the database.",
	}, []string{"table"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_delivered_total",
		Help: "Row change events delivered to subscribers.",
	}, []string{"table"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_dropped_total",
		Help: "Row change events dropped because a subscriber buffer was full.",
	}, []string{"table"})
	reg.MustRegister(received, delivered, dropped)
	return &RealtimeMetrics{received: received, delivered: delivered, dropped: dropped}
}

func (m *RealtimeMetrics) IncReceived(table string) {
	if m == nil || m.received == nil {
		return
	}
	m.received.WithLabelValues(normalizeLabel(table)).Inc()
}

func (m *RealtimeMetrics) IncDelivered(table string) {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.WithLabelValues(normalizeLabel(table)).Inc()
}

func (m *RealtimeMetrics) IncDropped(table string) {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.WithLabelValues(normalizeLabel(table)).Inc()
}
