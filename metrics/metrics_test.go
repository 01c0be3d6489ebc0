package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveRequest("receive", OutcomeOK)
	m.AddDrawn(3)
	m.SetRemaining(7)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNew_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveRequest("receive", OutcomeOK)
	m.ObserveRequest("receive_tx", "not_found")
	m.AddDrawn(2)
	m.SetRemaining(5)

	const want = `
# HELP libmint_inventory_remaining Undrawn items left in the inventory.
# TYPE libmint_inventory_remaining gauge
libmint_inventory_remaining 5
# HELP libmint_items_drawn_total Items removed from the inventory by committed allocations.
# TYPE libmint_items_drawn_total counter
libmint_items_drawn_total 2
# HELP libmint_requests_total Dispatched commands by command name and outcome.
# TYPE libmint_requests_total counter
libmint_requests_total{command="receive",outcome="ok"} 1
libmint_requests_total{command="receive_tx",outcome="not_found"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want),
		"libmint_inventory_remaining", "libmint_items_drawn_total", "libmint_requests_total"))
}

func TestNew_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestObserveRequest(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.ObserveRequest("receive", OutcomeOK)
	m.ObserveRequest("receive", OutcomeOK)
	m.ObserveRequest("receive", "payment_mismatch")
	m.ObserveRequest("", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsVec().WithLabelValues("receive", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsVec().WithLabelValues("receive", "payment_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsVec().WithLabelValues("unknown", "unknown")))
}

func TestDrawnAndRemaining(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.AddDrawn(2)
	m.AddDrawn(0)
	m.AddDrawn(-1)
	m.AddDrawn(1)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DrawnCounter()))

	m.SetRemaining(10)
	m.SetRemaining(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RemainingGauge()))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("receive", OutcomeOK)
		m.AddDrawn(1)
		m.SetRemaining(1)
	})
}
