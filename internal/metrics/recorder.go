package metrics

import "time"

// ResultLabel enumerates page render outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultNotFound ResultLabel = "not_found"
	ResultError    ResultLabel = "error"
)

// Cache names used as label values.
const (
	CacheModel  = "model"
	CacheReadme = "readme"
)

// Recorder defines observability hooks for page rendering and content caches.
type Recorder interface {
	ObservePageRender(pageKind string, d time.Duration)
	IncPageResult(pageKind string, result ResultLabel)
	IncCacheLookup(cache string, hit bool)
	IncCacheInvalidation(cache string)
	ObserveModelLoad(d time.Duration, success bool)
	IncReadmeLoad(success bool)
	SetLiveReloadClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePageRender(string, time.Duration) {}
func (NoopRecorder) IncPageResult(string, ResultLabel)       {}
func (NoopRecorder) IncCacheLookup(string, bool)             {}
func (NoopRecorder) IncCacheInvalidation(string)             {}
func (NoopRecorder) ObserveModelLoad(time.Duration, bool)    {}
func (NoopRecorder) IncReadmeLoad(bool)                      {}
func (NoopRecorder) SetLiveReloadClients(int)                {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
