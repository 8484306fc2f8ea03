package handlers

import (
	"net/http"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
)

// ModelIndex is a ModelSource that can also enumerate packages.
type ModelIndex interface {
	ModelSource
	Packages() ([]string, error)
}

// APIHandlers serves the JSON API under /api.
type APIHandlers struct {
	models ModelIndex
	errors *derrors.HTTPErrorAdapter
}

// NewAPIHandlers creates the JSON API handlers.
func NewAPIHandlers(models ModelIndex, adapter *derrors.HTTPErrorAdapter) *APIHandlers {
	if adapter == nil {
		adapter = derrors.NewHTTPErrorAdapter(nil)
	}
	return &APIHandlers{models: models, errors: adapter}
}

// HandlePackages lists every package with its available versions.
func (h *APIHandlers) HandlePackages(w http.ResponseWriter, r *http.Request) {
	names, err := h.models.Packages()
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	resp := responses.PackagesResponse{Packages: make([]responses.PackageSummary, 0, len(names))}
	for _, name := range names {
		versions, err := h.models.Versions(name)
		if err != nil {
			h.errors.WriteErrorResponse(w, r, err)
			return
		}
		resp.Packages = append(resp.Packages, responses.PackageSummary{Name: name, Versions: versions})
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errors.WriteErrorResponse(w, r, derrors.InternalError("failed to encode packages").WithCause(err).Build())
	}
}

// HandleSidebar returns the grouped sidebar of a package version. The
// optional segment query parameter marks the matching entry active.
func (h *APIHandlers) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	pkg, version := r.PathValue("package"), r.PathValue("version")
	m, err := h.models.Load(r.Context(), pkg, version)
	if err != nil {
		h.errors.WriteErrorResponse(w, r, err)
		return
	}
	segment := r.URL.Query().Get("segment")
	resp := responses.SidebarResponse{
		Package:  pkg,
		Version:  version,
		Segment:  segment,
		Sections: sidebar.Build(m, segment),
	}
	if resp.Sections == nil {
		resp.Sections = []sidebar.Section{}
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errors.WriteErrorResponse(w, r, derrors.InternalError("failed to encode sidebar").WithCause(err).Build())
	}
}
