package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterRequests.WithLabelValues("GET", "/ping", "200").Inc()
	m.CounterWorkouts.WithLabelValues(ActionCreate).Add(2)
	m.CounterExports.Inc()
	m.GaugeRequests.Set(3)
	m.HistRequestDuration.WithLabelValues("GET", "/ping").Observe(0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "/ping", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkouts.WithLabelValues(ActionCreate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterExports))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GaugeRequests))

	count, err := testutil.GatherAndCount(reg, "gymnexus_test_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewManager_SeparateRegistries(t *testing.T) {
	// Two managers must not collide on the default registerer.
	a := NewTestManager()
	b := NewTestManager()
	a.CounterExports.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterExports))
}
