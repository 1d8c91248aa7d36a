package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, CycleDuration)
	assert.NotNil(t, CyclesTotal)
	assert.NotNil(t, CycleItemsTotal)
	assert.NotNil(t, CycleInProgress)
	assert.NotNil(t, CycleLastSuccessTimestamp)
	assert.NotNil(t, ProductsTracked)
	assert.NotNil(t, SchedulerNextCycleTimestamp)
	assert.NotNil(t, ScrapeDuration)
	assert.NotNil(t, ScrapeFailuresTotal)
	assert.NotNil(t, NotificationsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
	assert.NotNil(t, SubscribersAddedTotal)
	assert.NotNil(t, EventsPublishedTotal)
	assert.NotNil(t, EventPublishFailuresTotal)
}

func TestMetricsNamespace(t *testing.T) {
	t.Parallel()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	// Gauges are always exported, even before first use.
	names := make(map[string]*io_prometheus_client.MetricFamily, len(families))
	for _, f := range families {
		names[f.GetName()] = f
	}

	for _, want := range []string{
		"trackmyprices_healthz_up",
		"trackmyprices_readyz_up",
		"trackmyprices_cycle_in_progress",
		"trackmyprices_products_tracked",
	} {
		f, ok := names[want]
		require.True(t, ok, "missing metric family %s", want)
		assert.Equal(t, io_prometheus_client.MetricType_GAUGE, f.GetType())
	}
}
