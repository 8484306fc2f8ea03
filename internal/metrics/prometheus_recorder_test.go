package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObservePageRender("readme", 150*time.Millisecond)
	pr.IncPageResult("readme", ResultSuccess)
	pr.IncPageResult("item", ResultNotFound)
	pr.IncCacheLookup(CacheModel, true)
	pr.IncCacheLookup(CacheModel, false)
	pr.IncCacheLookup(CacheModel, false)
	pr.IncCacheInvalidation(CacheReadme)
	pr.ObserveModelLoad(20*time.Millisecond, true)
	pr.IncReadmeLoad(false)
	pr.SetLiveReloadClients(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.cacheLookups.WithLabelValues(CacheModel, "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.cacheLookups.WithLabelValues(CacheModel, "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.pageResults.WithLabelValues("item", string(ResultNotFound))), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.liveReloadClients), 0)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObservePageRender("readme", time.Second)
		pr.IncCacheLookup(CacheReadme, true)
		pr.SetLiveReloadClients(1)
	})
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	assert.Same(t, pr, OrNoop(pr))
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncReadmeLoad(true)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docsite_readme_loads_total")
}
