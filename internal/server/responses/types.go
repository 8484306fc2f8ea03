// Package responses defines API response types used by docsite HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/sidebar"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadyResponse represents the readiness check API response.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// PackageSummary lists the versions available for one package.
type PackageSummary struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

// PackagesResponse represents the package index API response.
type PackagesResponse struct {
	Packages []PackageSummary `json:"packages"`
}

// SidebarResponse represents the grouped sidebar of one package version.
type SidebarResponse struct {
	Package  string            `json:"package"`
	Version  string            `json:"version"`
	Segment  string            `json:"segment,omitempty"`
	Sections []sidebar.Section `json:"sections"`
}
