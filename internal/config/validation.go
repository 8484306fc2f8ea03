package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
)

// Validate checks a normalized, defaulted configuration.
func Validate(cfg *Config) error {
	var errs []error

	if strings.ContainsAny(cfg.Content.ReadmeFilename, `/\`) {
		errs = append(errs, fmt.Errorf("content.readme_filename must be a bare file name, got %q", cfg.Content.ReadmeFilename))
	}
	if cfg.Content.ReadmeDir == cfg.Content.ModelDir {
		errs = append(errs, errors.New("content.readme_dir and content.model_dir must differ"))
	} else if nestedDirs(cfg.Content.ReadmeDir, cfg.Content.ModelDir) {
		errs = append(errs, errors.New("content.readme_dir and content.model_dir must not contain each other"))
	}

	if !slices.Contains(styles.Names(), cfg.Render.HighlightStyle) {
		errs = append(errs, fmt.Errorf("render.highlight_style %q is not a known chroma style", cfg.Render.HighlightStyle))
	}

	if cfg.Cache.RefreshInterval < 0 {
		errs = append(errs, errors.New("cache.refresh_interval must not be negative"))
	}
	if cfg.Cache.RefreshInterval > 0 && !cfg.Cache.Enabled {
		errs = append(errs, errors.New("cache.refresh_interval requires cache.enabled"))
	}

	if cfg.Monitoring.Metrics.Enabled && cfg.Monitoring.Metrics.Path == cfg.Monitoring.Health.Path {
		errs = append(errs, errors.New("monitoring metrics and health paths must differ"))
	}

	return errors.Join(errs...)
}

// nestedDirs reports whether a and b resolve to the same directory or one lies inside the other.
func nestedDirs(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	within := func(parent, child string) bool {
		rel, err := filepath.Rel(parent, child)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
	return within(absA, absB) || within(absB, absA)
}
