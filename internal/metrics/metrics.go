// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespacePrefix = "gamemode_"

// Provider operation metrics
var (
	// ProviderOpsTotal counts best-effort provider operations by outcome.
	ProviderOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamemode_provider_operations_total",
			Help: "Provider operations by provider, operation and status",
		},
		[]string{"provider", "operation", "status"},
	)
)

// Session metrics
var (
	// SessionTransitionsTotal counts completed enable/disable transitions.
	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamemode_session_transitions_total",
			Help: "Completed session transitions by direction",
		},
		[]string{"transition"},
	)

	// SessionTransitionDuration tracks how long enable/disable take.
	SessionTransitionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamemode_session_transition_duration_seconds",
			Help:    "Session transition duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"transition"},
	)

	// MonitorAutoDisableTotal counts sessions ended because the game exited.
	MonitorAutoDisableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamemode_monitor_auto_disable_total",
			Help: "Sessions disabled by the monitor after the tracked process exited",
		},
	)
)

// Observe records one provider operation.
func Observe(provider, operation string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	ProviderOpsTotal.WithLabelValues(provider, operation, status).Inc()
}

// Summary flattens every gamemode counter in the default registry into
// "name{labels}" -> value, for display.
func Summary() (map[string]float64, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER || !strings.HasPrefix(mf.GetName(), namespacePrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			out[mf.GetName()+labelString(m.GetLabel())] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
