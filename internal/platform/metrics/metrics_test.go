package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_data/internal/feature/quotes/usecase"
)

func TestMetrics_ObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch(usecase.OutcomeOK, 120*time.Millisecond)
	m.ObserveFetch(usecase.OutcomeOK, 80*time.Millisecond)
	m.ObserveFetch(usecase.OutcomeError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues(usecase.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues(usecase.OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fetches.WithLabelValues(usecase.OutcomeEmpty)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.fetchDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveFetch(usecase.OutcomeEmpty, 10*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `market_data_upstream_fetches_total{outcome="empty"} 1`))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
