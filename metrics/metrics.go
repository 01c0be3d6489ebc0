// Package metrics exposes Prometheus instrumentation for the minter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of RequestsTotal.
const (
	OutcomeOK = "ok"
)

// Metrics holds the minter collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	drawn     prometheus.Counter
	remaining prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "libmint_requests_total",
			Help: "Dispatched commands by command name and outcome.",
		}, []string{"command", "outcome"}),
		drawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "libmint_items_drawn_total",
			Help: "Items removed from the inventory by committed allocations.",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "libmint_inventory_remaining",
			Help: "Undrawn items left in the inventory.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requests, m.drawn, m.remaining} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRequest counts one dispatched command.
func (m *Metrics) ObserveRequest(command, outcome string) {
	if m == nil {
		return
	}
	if command == "" {
		command = "unknown"
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.requests.WithLabelValues(command, outcome).Inc()
}

// AddDrawn adds n committed draws.
func (m *Metrics) AddDrawn(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.drawn.Add(float64(n))
}

// SetRemaining records the current inventory size.
func (m *Metrics) SetRemaining(n uint32) {
	if m == nil {
		return
	}
	m.remaining.Set(float64(n))
}
