package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics tracks privileged user provisioning outcomes.
type GatewayMetrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewGatewayMetrics registers gateway counters. Labels: operation is invite or
// delete, step names the failing step (validate, provider, database, compensate).
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_operations_total",
		Help: "Completed privileged gateway operations.",
	}, []string{"operation", "role"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_step_failures_total",
		Help: "Failed steps of privileged gateway operations.",
	}, []string{"operation", "step"})
	reg.MustRegister(operations, failures)
	return &GatewayMetrics{operations: operations, failures: failures}
}

func (m *GatewayMetrics) IncSuccess(operation, role string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(role)).Inc()
}

func (m *GatewayMetrics) IncStepFailure(operation, step string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation), normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
