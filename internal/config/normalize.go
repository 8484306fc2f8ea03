package config

import (
	"fmt"
	"path"
	"strings"
)

// normalize canonicalizes enumerations and path-like values before defaults run.
// It returns human-readable warnings for values it rewrote.
func normalize(cfg *Config) ([]string, error) {
	var warnings []string

	if raw := string(cfg.Logging.Level); raw != "" {
		lvl, err := logLevelNormalizer.NormalizeWithError(raw)
		if err != nil {
			return nil, fmt.Errorf("logging.level: %w", err)
		}
		if string(lvl) != raw {
			warnings = append(warnings, fmt.Sprintf("normalized logging.level from %q to %q", raw, lvl))
		}
		cfg.Logging.Level = lvl
	}
	if raw := string(cfg.Logging.Format); raw != "" {
		format, err := logFormatNormalizer.NormalizeWithError(raw)
		if err != nil {
			return nil, fmt.Errorf("logging.format: %w", err)
		}
		cfg.Logging.Format = format
	}

	cfg.Render.HighlightStyle = strings.ToLower(strings.TrimSpace(cfg.Render.HighlightStyle))

	if p := strings.TrimSpace(cfg.Monitoring.Metrics.Path); p != "" {
		cfg.Monitoring.Metrics.Path = cleanURLPath(p)
	}
	if p := strings.TrimSpace(cfg.Monitoring.Health.Path); p != "" {
		cfg.Monitoring.Health.Path = cleanURLPath(p)
	}
	return warnings, nil
}

func cleanURLPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
