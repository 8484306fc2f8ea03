// Package metrics provides the observability hooks used by the documentation server.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	store := apimodel.NewStore(fsys, apimodel.WithRecorder(recorder))
//
// When monitoring.metrics.enabled is set, serve wires a PrometheusRecorder and
// exposes its registry through HTTPHandler.
package metrics
