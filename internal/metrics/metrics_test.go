package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	ok := ProviderOpsTotal.WithLabelValues("services", "stop", "ok")
	failed := ProviderOpsTotal.WithLabelValues("services", "stop", "failed")
	okBefore := testutil.ToFloat64(ok)
	failedBefore := testutil.ToFloat64(failed)

	Observe("services", "stop", true)
	Observe("services", "stop", false)
	Observe("services", "stop", false)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}

func TestSummary(t *testing.T) {
	Observe("registry", "write", true)
	MonitorAutoDisableTotal.Inc()

	summary, err := Summary()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary["gamemode_provider_operations_total{operation=write,provider=registry,status=ok}"], 1.0)
	assert.GreaterOrEqual(t, summary["gamemode_monitor_auto_disable_total"], 1.0)
	for name := range summary {
		assert.Contains(t, name, namespacePrefix)
	}
}
