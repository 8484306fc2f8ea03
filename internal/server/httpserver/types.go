package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/handlers"
	"git.home.luguber.info/inful/docsite/internal/view"
)

// LiveReloadHub is the live-reload event stream mounted at /livereload.
type LiveReloadHub interface {
	http.Handler
	Shutdown()
}

// Options carries the collaborators the server routes requests to.
type Options struct {
	Models  handlers.ModelIndex
	Readmes handlers.ReadmeSource
	View    *view.Renderer

	// Recorder receives page metrics; nil records nothing.
	Recorder metrics.Recorder
	// Metrics serves the Prometheus exposition; nil leaves the metrics path unrouted.
	Metrics http.Handler
	// LiveReload is mounted only when watch mode is enabled.
	LiveReload LiveReloadHub

	Version string
	Logger  *slog.Logger
}
