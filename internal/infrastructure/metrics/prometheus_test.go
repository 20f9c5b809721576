package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveImportRow("success")
	r.ObserveImportRow("success")
	r.ObserveImportRow("failed")
	r.ObserveCompensation("failed")
	r.ObserveItemCleanupFailure()
	r.ObserveUpdateItemFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.importRows.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.importRows.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.compensations.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cleanupFails))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.updateFailures))

	n, err := testutil.GatherAndCount(reg, "cms_import_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
