package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/view"
)

const staticCacheControl = "public, max-age=3600"

// StaticHandlers serves the embedded assets and the code highlighting stylesheet.
type StaticHandlers struct {
	view   *view.Renderer
	assets http.Handler
}

// NewStaticHandlers serves assets below prefix (for example "/static/").
func NewStaticHandlers(v *view.Renderer, prefix string) *StaticHandlers {
	return &StaticHandlers{
		view:   v,
		assets: http.StripPrefix(prefix, http.FileServerFS(view.Static())),
	}
}

// HandleAssets serves the embedded CSS and JavaScript files.
func (h *StaticHandlers) HandleAssets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", staticCacheControl)
	h.assets.ServeHTTP(w, r)
}

// HandleHighlightCSS serves the stylesheet of the configured chroma style.
func (h *StaticHandlers) HandleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.view.WriteHighlightCSS(&buf); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write highlight CSS", logfields.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", staticCacheControl)
	_, _ = buf.WriteTo(w)
}
