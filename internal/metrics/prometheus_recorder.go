package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration    *prom.HistogramVec
	pageResults       *prom.CounterVec
	cacheLookups      *prom.CounterVec
	cacheInvalidation *prom.CounterVec
	modelLoadDuration *prom.HistogramVec
	readmeLoads       *prom.CounterVec
	liveReloadClients prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "Duration of page renders by page kind",
			Buckets:   prom.DefBuckets,
		}, []string{"page_kind"}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Page render outcomes by page kind",
		}, []string{"page_kind", "result"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Content cache lookups by cache and outcome",
		}, []string{"cache", "result"}),
		cacheInvalidation: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Content cache invalidations by cache",
		}, []string{"cache"}),
		modelLoadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "model_load_duration_seconds",
			Help:      "Duration of API model decodes",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		readmeLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "readme_loads_total",
			Help:      "README loads by success/failure",
		}, []string{"result"}),
		liveReloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.pageResults, pr.cacheLookups, pr.cacheInvalidation,
		pr.modelLoadDuration, pr.readmeLoads, pr.liveReloadClients)
	return pr
}

func (p *PrometheusRecorder) ObservePageRender(pageKind string, d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(pageKind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(pageKind string, result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(pageKind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCacheLookup(cache string, hit bool) {
	if p == nil || p.cacheLookups == nil {
		return
	}
	res := "miss"
	if hit {
		res = "hit"
	}
	p.cacheLookups.WithLabelValues(cache, res).Inc()
}

func (p *PrometheusRecorder) IncCacheInvalidation(cache string) {
	if p == nil || p.cacheInvalidation == nil {
		return
	}
	p.cacheInvalidation.WithLabelValues(cache).Inc()
}

func (p *PrometheusRecorder) ObserveModelLoad(d time.Duration, success bool) {
	if p == nil || p.modelLoadDuration == nil {
		return
	}
	p.modelLoadDuration.WithLabelValues(resultString(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncReadmeLoad(success bool) {
	if p == nil || p.readmeLoads == nil {
		return
	}
	p.readmeLoads.WithLabelValues(resultString(success)).Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	if p == nil || p.liveReloadClients == nil {
		return
	}
	p.liveReloadClients.Set(float64(n))
}

func resultString(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
