package metrics_server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	metrics_server "content-service/internal/infrastructure/inbound/metrics"
	"content-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestMetricsHandler(t *testing.T) {
	provider := prometheus.NewPrometheusMetricsProvider()
	provider.IncrementPostOperations("create", true)

	rec := httptest.NewRecorder()
	metrics_server.NewHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "post_operations_total")
}
