package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandaruwank/AgroPulze/pkg/metrics"
)

func TestCollector_ObserveReport(t *testing.T) {
	c := metrics.NewCollector("agropulse")

	c.ObserveReport("ok", 3)
	c.ObserveReport("ok", 1)
	c.ObserveReport("error", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ReportsGenerated.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReportsGenerated.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ReportPages))
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.NewCollector("agropulse")
	c.ObserveRequest(http.MethodGet, "/api/products/getall", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `agropulse_http_requests_total{method="GET",route="/api/products/getall",status="200"} 1`)
	assert.Contains(t, string(body), "agropulse_http_request_duration_seconds_bucket")
}
