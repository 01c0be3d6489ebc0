package metrics

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) RequestsVec() *prometheus.CounterVec { return m.requests }
func (m *Metrics) DrawnCounter() prometheus.Counter    { return m.drawn }
func (m *Metrics) RemainingGauge() prometheus.Gauge    { return m.remaining }
